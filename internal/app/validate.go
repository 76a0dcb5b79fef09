package app

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/lalith-99/clubhub/internal/models"
)

// ClubCategories are the kinds of club a student may apply to register.
var ClubCategories = []string{
	"Google Developer Student Club",
	"AI/ML Research Club",
	"Cybersecurity Society",
	"Web Development Club",
	"Mobile App Development",
	"Data Science Club",
	"Competitive Programming",
	"Open Source Community",
	"Tech Entrepreneurship",
	"Other",
}

var channelNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages line up with request bodies.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterValidation("channelname", func(fl validator.FieldLevel) bool {
		return channelNamePattern.MatchString(fl.Field().String())
	})
	v.RegisterValidation("clubcategory", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		for _, c := range ClubCategories {
			if c == s {
				return true
			}
		}
		return false
	})
	return v
}

func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate input: %w", err)
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = describe(fe)
	}
	return &ValidationError{Fields: fields}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "channelname":
		return "can only contain lowercase letters, numbers, hyphens, and underscores"
	case "clubcategory":
		return "must be a known club category"
	}
	return "is invalid"
}

// SignupInput is everything a new user provides when registering.
type SignupInput struct {
	Name       string   `json:"name" validate:"required"`
	Email      string   `json:"email" validate:"required,email"`
	Password   string   `json:"password" validate:"required,min=6"`
	Bio        string   `json:"bio"`
	Skills     []string `json:"skills"`
	Year       string   `json:"year"`
	Department string   `json:"department"`
}

// ChannelInput describes a channel to create in the current club.
// Name is lower-cased before validation.
type ChannelInput struct {
	Name        string             `json:"name" validate:"required,min=2,channelname"`
	Description string             `json:"description" validate:"required,min=10"`
	Type        models.ChannelType `json:"type" validate:"required,oneof=general qna resources sessions"`
}

// ResourceInput describes a resource being shared in the current club.
type ResourceInput struct {
	Title       string                  `json:"title" validate:"required"`
	Description string                  `json:"description"`
	Category    models.ResourceCategory `json:"category" validate:"required,oneof=notes syllabus past-papers tutorials books"`
	FileURL     string                  `json:"file_url" validate:"required"`
	Tags        []string                `json:"tags"`
}

// SessionInput describes a session being scheduled in the current club.
type SessionInput struct {
	Title           string             `json:"title" validate:"required"`
	Description     string             `json:"description"`
	StartTime       time.Time          `json:"start_time" validate:"required"`
	Duration        int                `json:"duration" validate:"gt=0"`
	Type            models.SessionType `json:"type" validate:"required,oneof=dsa tech-talk workshop meetup"`
	MaxParticipants int                `json:"max_participants" validate:"gt=0"`
	MeetingLink     string             `json:"meeting_link" validate:"omitempty,url"`
}

// ClubApplicationInput is a request to register a new club.
type ClubApplicationInput struct {
	Name               string `json:"name" validate:"required,min=3"`
	Description        string `json:"description" validate:"required,min=20,max=500"`
	Category           string `json:"category" validate:"required,clubcategory"`
	PresidencyProofURL string `json:"presidency_proof_url" validate:"required"`
}

// ProfileUpdate holds the profile fields to change. Nil fields are left alone.
type ProfileUpdate struct {
	Name       *string   `json:"name"`
	Avatar     *string   `json:"avatar"`
	Bio        *string   `json:"bio"`
	Skills     *[]string `json:"skills"`
	Year       *string   `json:"year"`
	Department *string   `json:"department"`
}

func (p ProfileUpdate) validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return fieldError("name", "is required")
	}
	return nil
}
