package discuss

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const (
	msgTitleAndContentRequired = "Title and Content are required fields."
	msgCategoryRequired        = "Please select a category."
	msgContentRequired         = "Content is a required field."
	msgInvalidUpvoteDelta      = "Upvote delta must be +1 or -1."
)

var structValidator = validator.New(validator.WithRequiredStructEnabled())

type AddDiscussionRequest struct {
	Title      string `json:"title"       validate:"required"`
	Content    string `json:"content"     validate:"required"`
	ImageURLs  string `json:"image_urls"`
	CategoryID int    `json:"category_id" validate:"required"`
}

type AddCommentRequest struct {
	Title     string `json:"title"      validate:"required"`
	Content   string `json:"content"    validate:"required"`
	ImageURLs string `json:"image_urls"`
}

// AddReplyRequest has no title: replies, unlike comments, are not asked for one.
type AddReplyRequest struct {
	Content   string `json:"content"    validate:"required"`
	ImageURLs string `json:"image_urls"`
}

// failedFields runs the struct validation and returns the names of the fields that failed.
func failedFields(req any) (map[string]bool, error) {
	err := structValidator.Struct(req)
	if err == nil {
		return nil, nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil, fmt.Errorf("failed to validate request: %w", err)
	}

	failed := make(map[string]bool, len(validationErrs))
	for _, fieldErr := range validationErrs {
		failed[fieldErr.StructField()] = true
	}

	return failed, nil
}

func (req AddDiscussionRequest) validate() (Category, error) {
	failed, err := failedFields(req)
	if err != nil {
		return Category{}, err
	}

	if failed["Title"] || failed["Content"] {
		return Category{}, ValidationError{Message: msgTitleAndContentRequired}
	}

	category, ok := CategoryByID(req.CategoryID)
	if failed["CategoryID"] || !ok {
		return Category{}, ValidationError{Message: msgCategoryRequired}
	}

	return category, nil
}

func (req AddCommentRequest) validate() error {
	failed, err := failedFields(req)
	if err != nil {
		return err
	}

	if len(failed) > 0 {
		return ValidationError{Message: msgTitleAndContentRequired}
	}

	return nil
}

func (req AddReplyRequest) validate() error {
	failed, err := failedFields(req)
	if err != nil {
		return err
	}

	if len(failed) > 0 {
		return ValidationError{Message: msgContentRequired}
	}

	return nil
}
