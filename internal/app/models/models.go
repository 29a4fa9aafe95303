package models

// Role defines the user role type
type Role string

const (
	RoleUser        Role = "user"
	RoleAssociation Role = "association"
	RoleAdmin       Role = "admin"
)

// Category is the shared cause category used by associations, campaigns and aid requests
type Category string

const (
	CategoryEducation   Category = "education"
	CategoryHealth      Category = "health"
	CategoryPoverty     Category = "poverty"
	CategoryEnvironment Category = "environment"
	CategoryChildren    Category = "children"
	CategoryElderly     Category = "elderly"
	CategoryAnimals     Category = "animals"
	CategoryOther       Category = "other"
)

// ValidCategory reports whether c is one of the known categories
func ValidCategory(c Category) bool {
	switch c {
	case CategoryEducation, CategoryHealth, CategoryPoverty, CategoryEnvironment,
		CategoryChildren, CategoryElderly, CategoryAnimals, CategoryOther:
		return true
	}
	return false
}

// Address is the embedded postal address used by users and associations
type Address struct {
	Street     *string `json:"street,omitempty" db:"street"`
	City       *string `json:"city,omitempty" db:"city"`
	PostalCode *string `json:"postalCode,omitempty" db:"postal_code"`
	Country    *string `json:"country,omitempty" db:"country"`
}

// Location is the lighter city/country pair carried by campaigns and aid requests
type Location struct {
	City    *string `json:"city,omitempty" db:"city"`
	Country *string `json:"country,omitempty" db:"country"`
}
