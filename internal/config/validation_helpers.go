package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	bperrors "github.com/KyleBlankRollins/blueprint-sub003/pkg/errors"
)

// convertValidationError normalizes validator errors into configuration errors
// naming the YAML path of the first failing field.
func convertValidationError(fallbackSection string, err error) error {
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("failed validation for tag '%s'", ve.Tag())
		if param := ve.Param(); param != "" {
			msg = fmt.Sprintf("failed validation for tag '%s=%s'", ve.Tag(), param)
		}
		if value := ve.Value(); value != nil && ve.Tag() != "required" {
			msg = fmt.Sprintf("%s (got %v)", msg, value)
		}
		return bperrors.NewInvalidConfiguration(sectionOf(field, fallbackSection), field, msg, err)
	}

	return bperrors.NewInvalidConfiguration(fallbackSection, "", err.Error(), err)
}

// yamlishFieldName drops the root type from the namespace: Theme.colors[0].name -> colors[0].name.
func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, found := strings.Cut(ns, "."); found {
		return rest
	}
	return ns
}

func sectionOf(field, fallback string) string {
	head, _, _ := strings.Cut(field, ".")
	head, _, _ = strings.Cut(head, "[")
	if head == "" {
		return fallback
	}
	return head
}

func fieldForColor(index int, field string) string {
	return fmt.Sprintf("colors[%d].%s", index, field)
}

func fieldForVariant(variant, token string) string {
	return fmt.Sprintf("variants.%s.%s", variant, token)
}
