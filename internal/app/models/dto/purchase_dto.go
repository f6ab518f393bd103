package dto

import (
	"time"

	"github.com/yigit/learnhub/internal/app/models"
)

// CheckoutSessionRequest starts a checkout for one course
type CheckoutSessionRequest struct {
	CourseID int64 `json:"courseId" binding:"required,min=1" example:"7"`
}

// CheckoutSessionResponse carries the hosted checkout URL the client redirects to
type CheckoutSessionResponse struct {
	Success bool   `json:"success" example:"true"`
	URL     string `json:"url" example:"https://checkout.stripe.com/c/pay/cs_test_a1"`
}

// CourseDetailWithStatusResponse is a course plus the caller's purchase state
type CourseDetailWithStatusResponse struct {
	Course    CourseResponse `json:"course"`
	Purchased bool           `json:"purchased" example:"false"`
}

// PurchaseResponse is one completed purchase. The course is nested under
// courseId, the shape clients already consume.
type PurchaseResponse struct {
	ID        int64                 `json:"id" example:"1"`
	Course    *CourseResponse       `json:"courseId"`
	UserID    int64                 `json:"userId" example:"3"`
	Amount    float64               `json:"amount" example:"500"`
	Currency  string                `json:"currency" example:"inr"`
	Status    models.PurchaseStatus `json:"status" example:"completed"`
	PaymentID *string               `json:"paymentId,omitempty" example:"cs_test_a1"`
	CreatedAt time.Time             `json:"createdAt"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// PurchasedCoursesResponse lists the caller's completed purchases
type PurchasedCoursesResponse struct {
	PurchasedCourse []PurchaseResponse `json:"purchasedCourse"`
}

// PurchaseSummaryResponse holds the dashboard figures of completed purchases
type PurchaseSummaryResponse struct {
	TotalSales   int64   `json:"totalSales" example:"4"`
	TotalRevenue float64 `json:"totalRevenue" example:"2000"`
}

// LectureAccessResponse is a lecture the caller is allowed to watch
type LectureAccessResponse struct {
	CourseID int64           `json:"courseId" example:"7"`
	Lecture  LectureResponse `json:"lecture"`
}

// FromPurchase converts a purchase with its course loaded
func FromPurchase(p *models.CoursePurchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    p.Status,
		PaymentID: p.PaymentID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Course != nil {
		course := FromCourse(p.Course, p.IsCompleted())
		resp.Course = &course
	}
	return resp
}
