package translate

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	apperrors "github.com/moviereviews/backend/pkg/errors"
)

// NormalizeLanguage canonicalizes a BCP-47 language code, accepting
// underscores as separators: "FR" becomes "fr" and "pt_br" becomes "pt-BR".
func NormalizeLanguage(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", apperrors.InvalidInput("language is required")
	}

	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil || tag == language.Und {
		return "", apperrors.InvalidInput(fmt.Sprintf("language %q is not a valid language code", code))
	}
	return tag.String(), nil
}
