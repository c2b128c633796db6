package server

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"bingo-rooms/internal/bingo"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength     = 60
	maxNicknameLength = 32
	maxIDLength       = 64
	roomCodeLength    = 6
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("nickname", func(fl validator.FieldLevel) bool {
			_, err := validateText("nickname", fl.Field().String(), maxNicknameLength)
			return err == nil
		})
		_ = engine.RegisterValidation("roomname", func(fl validator.FieldLevel) bool {
			_, err := validateText("name", fl.Field().String(), maxNameLength)
			return err == nil
		})
		_ = engine.RegisterValidation("rules", func(fl validator.FieldLevel) bool {
			raw, ok := fl.Field().Interface().([]string)
			if !ok {
				return false
			}
			_, err := bingo.ParseRules(raw)
			return err == nil
		})
		_ = engine.RegisterValidation("roomcode", func(fl validator.FieldLevel) bool {
			return validRoomCode(fl.Field().String())
		})
	})
}

// normalizeCode upper-cases a user-typed room code.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validRoomCode(code string) bool {
	code = normalizeCode(code)
	if len(code) != roomCodeLength {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func validateText(label, text string, maxLen int) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if len([]rune(trimmed)) > maxLen {
		return "", fmt.Errorf("%s must be %d characters or fewer", label, maxLen)
	}
	if !isSafeText(trimmed) {
		return "", fmt.Errorf("%s contains unsupported characters", label)
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

// isSafeText accepts letters in any script, digits and light punctuation.
func isSafeText(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '.', ',', '!', '?', ':', '&', '(', ')', '#':
			continue
		default:
			return false
		}
	}
	return true
}
