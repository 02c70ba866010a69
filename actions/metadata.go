// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package actions

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/ava-labs/fairlaunch/types"
)

const (
	MaxNameSize        = 100
	MaxSymbolSize      = 20
	MaxDescriptionSize = 1_000
	MaxSocialSize      = 100
	MaxURLSize         = 2_048
)

var (
	imageSchemes   = []string{"http", "https", "ipfs"}
	websiteSchemes = []string{"http", "https"}
)

// ValidateMetadata checks the creation-time limits of [m]. Lengths are
// counted in characters.
func ValidateMetadata(m *types.Metadata) error {
	name := strings.TrimSpace(m.Name)
	symbol := strings.TrimSpace(m.Symbol)
	switch {
	case len(name) == 0:
		return fmt.Errorf("%w: name is empty", ErrInvalidMetadata)
	case utf8.RuneCountInString(m.Name) > MaxNameSize:
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidMetadata, MaxNameSize)
	case len(symbol) == 0:
		return fmt.Errorf("%w: symbol is empty", ErrInvalidMetadata)
	case utf8.RuneCountInString(m.Symbol) > MaxSymbolSize:
		return fmt.Errorf("%w: symbol exceeds %d characters", ErrInvalidMetadata, MaxSymbolSize)
	case utf8.RuneCountInString(m.Description) > MaxDescriptionSize:
		return fmt.Errorf("%w: description exceeds %d characters", ErrInvalidMetadata, MaxDescriptionSize)
	case utf8.RuneCountInString(m.Twitter) > MaxSocialSize:
		return fmt.Errorf("%w: twitter exceeds %d characters", ErrInvalidMetadata, MaxSocialSize)
	case utf8.RuneCountInString(m.Telegram) > MaxSocialSize:
		return fmt.Errorf("%w: telegram exceeds %d characters", ErrInvalidMetadata, MaxSocialSize)
	}
	if err := validateURL("image url", m.ImageURL, imageSchemes); err != nil {
		return err
	}
	return validateURL("website", m.Website, websiteSchemes)
}

// validateURL accepts an empty value, which means the field is absent.
func validateURL(field, raw string, schemes []string) error {
	if raw == "" {
		return nil
	}
	if len(raw) > MaxURLSize {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrInvalidMetadata, field, MaxURLSize)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidMetadata, field, err)
	}
	scheme := strings.ToLower(u.Scheme)
	for _, s := range schemes {
		if scheme == s && (u.Host != "" || u.Opaque != "" || u.Path != "") {
			return nil
		}
	}
	return fmt.Errorf("%w: %s scheme %q not allowed", ErrInvalidMetadata, field, u.Scheme)
}
