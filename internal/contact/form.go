// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package contact validates contact form submissions and relays them to
// the sales inbox through a mail transport.
package contact

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"promsnab/internal/locale"
)

// Field limits, in runes.
const (
	minNameLen    = 2
	maxNameLen    = 100
	minMessageLen = 10
	maxMessageLen = 2000
	minPhoneDigit = 7
	maxPhoneDigit = 15
)

// Form field names.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldMessage  = "message"
	FieldConsent  = "consent"
	FieldHoneypot = "website"
)

var (
	// ErrSpam is returned when the honeypot field was filled in.
	ErrSpam = errors.New("contact: spam submission")

	// ErrInvalid wraps every field validation failure.
	ErrInvalid = errors.New("contact: invalid submission")
)

var phoneStrip = strings.NewReplacer("+", "", "(", "", ")", "", "-", "", ".", "", " ", "")

// Form is a contact form submission.
type Form struct {
	Name     string
	Email    string
	Phone    string
	Message  string
	Consent  bool
	Honeypot string
	Locale   locale.Code
}

// FromValues reads a Form from POST form values.
func FromValues(v url.Values, loc locale.Code) Form {
	consent := strings.ToLower(strings.TrimSpace(v.Get(FieldConsent)))
	return Form{
		Name:     v.Get(FieldName),
		Email:    v.Get(FieldEmail),
		Phone:    v.Get(FieldPhone),
		Message:  v.Get(FieldMessage),
		Consent:  consent == "on" || consent == "true" || consent == "1" || consent == "yes",
		Honeypot: v.Get(FieldHoneypot),
		Locale:   loc,
	}
}

// Normalized returns a copy with surrounding whitespace trimmed.
func (f Form) Normalized() Form {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Message = strings.TrimSpace(f.Message)
	return f
}

// Validate checks the submission. A honeypot holding anything at all,
// whitespace included, yields ErrSpam no matter what else was sent; any
// other failure wraps ErrInvalid.
func (f Form) Validate() error {
	if f.Honeypot != "" {
		return ErrSpam
	}
	f = f.Normalized()

	noContact := f.Email == "" && f.Phone == ""
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.RuneLength(minNameLen, maxNameLen)),
		validation.Field(&f.Email,
			validation.When(noContact, validation.Required.Error("email or phone is required")),
			is.EmailFormat.Error("must be a valid email address"),
		),
		validation.Field(&f.Phone, validation.By(validPhone)),
		validation.Field(&f.Message, validation.Required, validation.RuneLength(minMessageLen, maxMessageLen)),
		validation.Field(&f.Consent, validation.Required.Error("consent is required")),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// PhoneDigits strips the separators people type into phone numbers.
func PhoneDigits(phone string) string {
	return phoneStrip.Replace(strings.TrimSpace(phone))
}

func validPhone(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	digits := PhoneDigits(s)
	if len(digits) < minPhoneDigit || len(digits) > maxPhoneDigit {
		return validation.NewError("contact_phone_length", "phone must have 7 to 15 digits")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return validation.NewError("contact_phone_digits", "phone must contain only digits")
		}
	}
	return nil
}
