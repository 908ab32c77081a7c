package reducer

import (
	"github.com/goldi-lab/gift/pkg/domain"
)

func changeLanguage(s *domain.AppState, payload any) error {
	lang, err := decode[string](payload)
	if err != nil {
		return err
	}
	if err := check(lang, "required,bcp47_language_tag"); err != nil {
		return err
	}
	s.View.Language = lang
	return nil
}

func setMinimizationLevel(s *domain.AppState, payload any) error {
	level, err := decode[domain.MinimizationLevel](payload)
	if err != nil {
		return err
	}
	if err := check(string(level), "oneof=UNMINIMIZED MINIMIZED HStarMinimized"); err != nil {
		return err
	}
	s.View.MinimizationLevel = level
	return nil
}

// viewFlag builds a case for a boolean view setting.
func viewFlag(field func(v *domain.ViewConfig) *bool) CaseFunc {
	return func(s *domain.AppState, payload any) error {
		on, err := decode[bool](payload)
		if err != nil {
			return err
		}
		*field(&s.View) = on
		return nil
	}
}
