package contracts

// CredentialStore persists the single local token and organization record.
type CredentialStore interface {
	// Exists reports whether a record is present on disk.
	Exists() bool

	// Load returns empty strings and a nil error when no record exists.
	Load() (token, orgID string, err error)

	// Save creates or overwrites the record with owner-only permissions.
	Save(token, orgID string) error

	// Delete removes the record. A missing record is not an error.
	Delete() error

	// Mask renders token for display without exposing it.
	Mask(token string) string

	// Path is the location of the record.
	Path() string
}
