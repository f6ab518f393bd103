package models

import "time"

// CoursePurchase is the entitlement record of one checkout attempt
type CoursePurchase struct {
	ID        int64          `json:"id" db:"id"`
	CourseID  int64          `json:"courseId" db:"course_id"`
	UserID    int64          `json:"userId" db:"user_id"`
	Amount    float64        `json:"amount" db:"amount"`
	Currency  string         `json:"currency" db:"currency"`
	Status    PurchaseStatus `json:"status" db:"status"`
	PaymentID *string        `json:"paymentId,omitempty" db:"payment_id"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
	User   *User   `json:"user,omitempty"`
}

// IsCompleted reports whether the purchase unlocks the course
func (p *CoursePurchase) IsCompleted() bool {
	return p.Status == PurchaseStatusCompleted
}
