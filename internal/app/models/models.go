package models

// Role defines the user role type
type Role string

const (
	RoleStudent    Role = "student"
	RoleInstructor Role = "instructor"
)

// PurchaseStatus is the lifecycle state of a course purchase
type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
)

// IsValid reports whether s is a known purchase status
func (s PurchaseStatus) IsValid() bool {
	return s == PurchaseStatusPending || s == PurchaseStatusCompleted
}
