package presenters

import (
	"errors"
	"fmt"
	"strings"

	"diskowner/domain/disk"
)

// Placeholder is shown for required profile fields the directory left empty.
const Placeholder = "—"

// ProfileRow is one label/value line of the owner table.
type ProfileRow struct {
	Label string
	Value string
}

// ProfileVM is the owner table ready for rendering.
type ProfileVM struct {
	Rows []ProfileRow
}

// ProfilePresenter transforms directory profiles into table rows.
type ProfilePresenter struct{}

// NewProfilePresenter creates a profile presenter.
func NewProfilePresenter() *ProfilePresenter {
	return &ProfilePresenter{}
}

// ToProfileViewModel lists UID, login and email, then whichever name parts are set.
func (p *ProfilePresenter) ToProfileViewModel(profile *disk.UserProfile) *ProfileVM {
	if profile == nil {
		return &ProfileVM{}
	}

	vm := &ProfileVM{
		Rows: []ProfileRow{
			{Label: "UID", Value: orPlaceholder(profile.ID)},
			{Label: "Login", Value: orPlaceholder(profile.Nickname)},
			{Label: "Email", Value: orPlaceholder(profile.Email)},
		},
	}

	optional := []ProfileRow{
		{Label: "First name", Value: profile.FirstName},
		{Label: "Last name", Value: profile.LastName},
		{Label: "Middle name", Value: profile.MiddleName},
	}
	for _, row := range optional {
		if value := strings.TrimSpace(row.Value); value != "" {
			vm.Rows = append(vm.Rows, ProfileRow{Label: row.Label, Value: value})
		}
	}

	return vm
}

// FormatLookupError turns a failed lookup into the operator-facing message.
func FormatLookupError(err error) string {
	var parseErr *disk.ParseError
	if errors.As(err, &parseErr) {
		return "invalid link: " + parseErr.Error()
	}

	var apiErr *disk.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}

	return fmt.Sprintf("unexpected error: %v", err)
}

func orPlaceholder(value string) string {
	if strings.TrimSpace(value) == "" {
		return Placeholder
	}
	return value
}
