package validation

import (
	"testing"

	"github.com/julianstephens/focuslit/internal/errors"
)

type signup struct {
	Username string  `json:"username" validate:"notblank,max=32"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Hours    float64 `json:"hours" validate:"gte=0"`
	Date     string  `json:"date" validate:"omitempty,day"`
	Score    *int    `json:"score" validate:"omitempty,gte=0,lte=100"`
}

func valid() signup {
	return signup{Username: "ada", Email: "ada@example.com", Password: "secret1"}
}

func TestStruct(t *testing.T) {
	over := 101

	tests := []struct {
		name      string
		mutate    func(*signup)
		wantField string
		wantMsg   string
	}{
		{"valid", func(*signup) {}, "", ""},
		{"blank username", func(s *signup) { s.Username = "   " }, "username", "is required"},
		{"long username", func(s *signup) { s.Username = "abcdefghijklmnopqrstuvwxyz0123456789" }, "username", "must be at most 32 characters"},
		{"bad email", func(s *signup) { s.Email = "nope" }, "email", "must be a valid email address"},
		{"short password", func(s *signup) { s.Password = "abc" }, "password", "must be at least 6 characters"},
		{"negative hours", func(s *signup) { s.Hours = -1 }, "hours", "must be 0 or more"},
		{"bad date", func(s *signup) { s.Date = "03/09/2026" }, "date", "must be a date in YYYY-MM-DD format"},
		{"good date", func(s *signup) { s.Date = "2026-03-09" }, "", ""},
		{"score out of range", func(s *signup) { s.Score = &over }, "score", "must be 100 or less"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := Struct(s)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}

			var ve *errors.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
			}
			if ve.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", ve.Message, tt.wantMsg)
			}
			if !errors.Is(err, errors.ErrValidation) {
				t.Error("error does not match ErrValidation")
			}
		})
	}
}

func TestStructRejectsNonStruct(t *testing.T) {
	if err := Struct(42); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestVar(t *testing.T) {
	if err := Var("date", "2026-02-30", "day"); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("expected invalid day, got %v", err)
	}
	if err := Var("date", "2026-02-28", "day"); err != nil {
		t.Errorf("expected valid day, got %v", err)
	}
}
