package feedback

import (
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	minContentLength     = 10
	minTitleLength       = 5
	minDescriptionLength = 20
)

var validate = validator.New()

func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}

// normalizeType maps the free-form comment type tag onto the known set,
// defaulting to "general".
func normalizeType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "feedback":
		return "feedback"
	case "suggestion":
		return "suggestion"
	default:
		return "general"
	}
}

func (in *CommentInput) validate() error {
	in.Content = strings.TrimSpace(in.Content)
	in.Author = strings.TrimSpace(in.Author)
	in.Email = strings.TrimSpace(in.Email)

	if utf8.RuneCountInString(in.Content) < minContentLength {
		return invalid("Content must be at least 10 characters long")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return invalid("Rating must be between 1 and 5")
	}
	if !in.IsAnonymous {
		if in.Author == "" || in.Email == "" {
			return invalid("Name and email are required unless posting anonymously")
		}
		if !validEmail(in.Email) {
			return invalid("A valid email address is required")
		}
	}
	return nil
}

func (in *SuggestionInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Author = strings.TrimSpace(in.Author)
	in.Email = strings.TrimSpace(in.Email)

	if utf8.RuneCountInString(in.Title) < minTitleLength {
		return invalid("Title must be at least 5 characters long")
	}
	if utf8.RuneCountInString(in.Description) < minDescriptionLength {
		return invalid("Description must be at least 20 characters long")
	}
	if !in.IsAnonymous {
		if in.Author == "" || in.Email == "" {
			return invalid("Name and email are required unless posting anonymously")
		}
		if !validEmail(in.Email) {
			return invalid("A valid email address is required")
		}
	}
	return nil
}
