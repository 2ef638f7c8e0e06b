// Package validate holds the field-level validators shared by the handlers
// and the library package. They mirror the catalog's input contracts: strict
// ASCII charsets, so hostile payloads fail the format check before they get
// anywhere near a query.
package validate

import (
	"errors"
	"regexp"
	"unicode"
)

var (
	ErrInvalidUsername  = errors.New("invalid username format")
	ErrInvalidTitle     = errors.New("title must be 1-100 characters of letters, digits, spaces or ':'")
	ErrInvalidPublisher = errors.New("publisher must be capitalized and 1-100 characters of letters, digits or spaces")
	ErrInvalidGenreName = errors.New("genre name must be 1-100 characters of letters, digits, spaces or '-'")
)

var (
	usernameRe  = regexp.MustCompile(`^[A-Za-z0-9.@+_-]+$`)
	titleRe     = regexp.MustCompile(`^[A-Za-z0-9\s:]{1,100}$`)
	publisherRe = regexp.MustCompile(`^[A-Za-z0-9\s]{1,100}$`)
	genreRe     = regexp.MustCompile(`^[A-Za-z0-9\s-]{1,100}$`)
)

// Username accepts ASCII letters, digits and '.', '-', '_', '@', '+' only.
// The same rule covers login identifiers and the owner-lookup path parameter.
func Username(value string) error {
	if value == "" || !usernameRe.MatchString(value) {
		return ErrInvalidUsername
	}
	return nil
}

// Title checks a game title against the catalog charset.
func Title(value string) error {
	if !titleRe.MatchString(value) {
		return ErrInvalidTitle
	}
	return nil
}

// Publisher requires a capitalized publisher name in the catalog charset.
func Publisher(value string) error {
	if !publisherRe.MatchString(value) {
		return ErrInvalidPublisher
	}
	if !unicode.IsUpper(rune(value[0])) {
		return ErrInvalidPublisher
	}
	return nil
}

// GenreName checks a genre label.
func GenreName(value string) error {
	if !genreRe.MatchString(value) {
		return ErrInvalidGenreName
	}
	return nil
}
