package domain

import "time"

// Plan enumerates the subscription tiers offered by the product.
type Plan string

const (
	PlanStarter    Plan = "starter"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// PlanFromID maps the backend's numeric plan identifier to a Plan.
// Unknown identifiers fall back to the starter tier.
func PlanFromID(id int) Plan {
	switch id {
	case 1:
		return PlanPro
	case 2:
		return PlanEnterprise
	default:
		return PlanStarter
	}
}

// User is the authenticated account profile mirrored from the backend.
type User struct {
	ID            string
	Email         string
	Name          string
	Company       string
	Phone         string
	Address       string
	City          string
	State         string
	Zip           string
	Country       string
	Plan          Plan
	Credits       int
	APIKey        string
	CreatedAt     time.Time
	EmailVerified bool
}

// Registration carries the signup form fields.
type Registration struct {
	Name     string
	Email    string
	Password string
	Company  string
	Phone    string
	Address  string
	City     string
	State    string
	Zip      string
	Country  string
}

// ProfileUpdate carries a partial profile edit. Empty fields are ignored by
// the backend, matching its PATCH semantics.
type ProfileUpdate struct {
	Name    string
	Company string
	Phone   string
	Address string
	City    string
	State   string
	Zip     string
	Country string
}
