package config

import (
	"strings"

	bperrors "github.com/KyleBlankRollins/blueprint-sub003/pkg/errors"
)

// ValidateTheme performs structural validation on a theme document. Numeric
// sanity of the spacing and typography scales is checked by the CSS generator,
// after plugins are merged, so that it applies to the final theme.
func ValidateTheme(t *Theme) error {
	if t == nil {
		return bperrors.Invalidf("theme", "", "theme configuration is nil")
	}

	v := validatorInstance()
	if err := v.Struct(t); err != nil {
		return convertValidationError("theme", err)
	}

	if err := validateColors(t.Colors); err != nil {
		return err
	}

	if err := validateVariants(t.Variants, false); err != nil {
		return err
	}

	for _, p := range t.Accessibility.HighContrastOverrides {
		if err := v.Var(p.Key, "token_name"); err != nil {
			return bperrors.Invalidf("accessibility", "high_contrast_overrides."+p.Key, "invalid token name")
		}
		if strings.TrimSpace(p.Value) == "" {
			return bperrors.Invalidf("accessibility", "high_contrast_overrides."+p.Key, "value is empty")
		}
	}

	return validateAssets(t.Assets)
}

// ValidatePlugin performs structural validation on a plugin document. Empty
// token values pass here and are rejected by the theme builder, which knows
// whether they would remove a base token.
func ValidatePlugin(p *Plugin) error {
	if p == nil {
		return bperrors.Invalidf("plugins", "", "plugin configuration is nil")
	}

	if err := validatorInstance().Struct(p); err != nil {
		return convertValidationError("plugins", err)
	}

	if err := validateColors(p.Colors); err != nil {
		return err
	}

	if err := validateVariants(p.Variants, true); err != nil {
		return err
	}

	return validateAssets(p.Assets)
}

func validateColors(colors []ColorFamily) error {
	seen := make(map[string]struct{}, len(colors))
	for i, family := range colors {
		if _, dup := seen[family.Name]; dup {
			return bperrors.Invalidf("colors", fieldForColor(i, "name"), "duplicate color family %q", family.Name)
		}
		seen[family.Name] = struct{}{}

		if family.StepsSet && len(family.Steps) == 0 {
			return bperrors.Invalidf("colors", fieldForColor(i, "steps"), "steps list is empty")
		}
	}
	return nil
}

func validateVariants(variants Mapping[Tokens], allowEmpty bool) error {
	v := validatorInstance()
	for _, variant := range variants {
		if err := v.Var(variant.Key, "css_ident"); err != nil {
			return bperrors.Invalidf("variants", variant.Key, "invalid variant name")
		}
		for _, token := range variant.Value {
			if err := v.Var(token.Key, "token_name"); err != nil {
				return bperrors.Invalidf("variants", fieldForVariant(variant.Key, token.Key), "invalid token name (expected camelCase)")
			}
			if !allowEmpty && strings.TrimSpace(token.Value) == "" {
				return bperrors.Invalidf("variants", fieldForVariant(variant.Key, token.Key), "value is empty")
			}
		}
	}
	return nil
}

func validateAssets(assets []Asset) error {
	seen := make(map[string]struct{}, len(assets))
	for _, asset := range assets {
		if _, dup := seen[asset.Name]; dup {
			return bperrors.Invalidf("assets", asset.Name, "duplicate asset name")
		}
		seen[asset.Name] = struct{}{}
	}
	return nil
}
