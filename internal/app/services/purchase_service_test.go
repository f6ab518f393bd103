package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v76/webhook"
	"github.com/yigit/learnhub/internal/app/models"
	"github.com/yigit/learnhub/internal/pkg/apperrors"
	"github.com/yigit/learnhub/internal/pkg/payment"
)

type purchaseFixture struct {
	db         *memDB
	tx         *memTx
	gateway    *fakeGateway
	svc        PurchaseService
	instructor int64
	student    int64
	other      int64
	course     int64
	freeCourse int64
	lectures   []int64
}

func newPurchaseFixture(t *testing.T, unlockGlobally bool) *purchaseFixture {
	t.Helper()

	m := newMemDB()
	f := &purchaseFixture{db: m, tx: &memTx{db: m}, gateway: newFakeGateway()}

	f.instructor = m.id()
	m.users[f.instructor] = models.User{ID: f.instructor, Email: "instructor@learnhub.app", Name: "Instructor", Role: models.RoleInstructor}
	f.student = m.id()
	m.users[f.student] = models.User{ID: f.student, Email: "student@learnhub.app", Name: "Student", Role: models.RoleStudent}
	f.other = m.id()
	m.users[f.other] = models.User{ID: f.other, Email: "other@learnhub.app", Name: "Other", Role: models.RoleStudent}

	thumb := "https://cdn.learnhub.test/go.png"
	f.course = m.id()
	m.courses[f.course] = models.Course{ID: f.course, Title: "Go Fundamentals", Price: 500, ThumbnailURL: &thumb, CreatorID: f.instructor, IsPublished: true}
	f.freeCourse = m.id()
	m.courses[f.freeCourse] = models.Course{ID: f.freeCourse, Title: "Docker Basics", Price: 200, CreatorID: f.instructor, IsPublished: true}

	for i := 1; i <= 3; i++ {
		id := m.id()
		video := fmt.Sprintf("https://cdn.learnhub.test/v%d.mp4", i)
		m.lectures[id] = models.Lecture{ID: id, CourseID: f.course, Position: i, Title: fmt.Sprintf("Lecture %d", i), VideoURL: &video, IsPreviewFree: i == 1}
		f.lectures = append(f.lectures, id)
	}

	unlocker := NewUnlockService(memLectures{m}, memEnrollments{m}, UnlockOptions{UnlockLecturesGlobally: unlockGlobally}, testLogger)
	f.svc = NewPurchaseService(PurchaseDeps{
		Courses:    memCourses{m},
		Lectures:   memLectures{m},
		Users:      memUsers{m},
		Enrollment: memEnrollments{m},
		Purchases:  memPurchases{m},
		Events:     memEvents{m},
		Gateway:    f.gateway,
		Unlocker:   unlocker,
		Tx:         f.tx,
	}, PurchaseOptions{
		ClientURL:        "http://localhost:5173/",
		Currency:         "inr",
		AllowedCountries: []string{"IN"},
	}, testLogger)

	return f
}

func completedEvent(eventID, sessionID string, amountTotal int64) []byte {
	return []byte(fmt.Sprintf(`{"id":%q,"object":"event","type":"checkout.session.completed","data":{"object":{"id":%q,"object":"checkout.session","amount_total":%d,"currency":"inr","payment_status":"paid"}}}`,
		eventID, sessionID, amountTotal))
}

func signPayload(payload []byte, secret string) string {
	return webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	}).Header
}

// checkout runs a successful checkout and returns the stored purchase
func (f *purchaseFixture) checkout(t *testing.T, userID, courseID int64) models.CoursePurchase {
	t.Helper()
	if _, err := f.svc.CreateCheckoutSession(context.Background(), userID, courseID); err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	var latest models.CoursePurchase
	for _, p := range f.db.purchases {
		if p.ID > latest.ID {
			latest = p
		}
	}
	return latest
}

func (f *purchaseFixture) deliver(t *testing.T, eventID string, p models.CoursePurchase, amountTotal int64) error {
	t.Helper()
	payload := completedEvent(eventID, *p.PaymentID, amountTotal)
	return f.svc.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret))
}

func TestCreateCheckoutSession_PendingPurchaseBeforeGateway(t *testing.T) {
	f := newPurchaseFixture(t, true)

	f.gateway.CreateFunc = func(ctx context.Context, req payment.CheckoutRequest) (*payment.CheckoutSession, error) {
		if len(f.db.purchases) != 1 {
			t.Fatalf("expected one purchase before the gateway call, got %d", len(f.db.purchases))
		}
		for _, p := range f.db.purchases {
			if p.Status != models.PurchaseStatusPending || p.Amount != 500 || p.PaymentID != nil {
				t.Errorf("unexpected purchase at gateway time: %+v", p)
			}
		}
		return &payment.CheckoutSession{ID: "cs_test_abc", URL: "https://checkout.stripe.test/pay/cs_test_abc"}, nil
	}

	resp, err := f.svc.CreateCheckoutSession(context.Background(), f.student, f.course)
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if !resp.Success || resp.URL != "https://checkout.stripe.test/pay/cs_test_abc" {
		t.Errorf("unexpected response %+v", resp)
	}

	req := f.gateway.Requests[0]
	courseID := fmt.Sprint(f.course)
	if req.ProductName != "Go Fundamentals" || req.UnitAmount != 50000 || req.Currency != "inr" {
		t.Errorf("unexpected checkout request %+v", req)
	}
	if req.ImageURL != "https://cdn.learnhub.test/go.png" {
		t.Errorf("image = %q", req.ImageURL)
	}
	if req.SuccessURL != "http://localhost:5173/course-progress/"+courseID {
		t.Errorf("success url = %s", req.SuccessURL)
	}
	if req.CancelURL != "http://localhost:5173/course-detail/"+courseID {
		t.Errorf("cancel url = %s", req.CancelURL)
	}
	if req.Metadata["courseId"] != courseID || req.Metadata["userId"] != fmt.Sprint(f.student) {
		t.Errorf("metadata = %v", req.Metadata)
	}
	if len(req.AllowedCountries) != 1 || req.AllowedCountries[0] != "IN" {
		t.Errorf("countries = %v", req.AllowedCountries)
	}

	for _, p := range f.db.purchases {
		if p.PaymentID == nil || *p.PaymentID != "cs_test_abc" {
			t.Errorf("payment id not stored: %+v", p)
		}
	}
}

func TestCreateCheckoutSession_CourseNotFound(t *testing.T) {
	f := newPurchaseFixture(t, true)

	_, err := f.svc.CreateCheckoutSession(context.Background(), f.student, 9999)
	if !errors.Is(err, apperrors.ErrCourseNotFound) {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
	if len(f.db.purchases) != 0 || len(f.gateway.Requests) != 0 {
		t.Error("nothing should be created for an unknown course")
	}
}

func TestCreateCheckoutSession_NoThumbnail(t *testing.T) {
	f := newPurchaseFixture(t, true)
	f.checkout(t, f.student, f.freeCourse)
	if f.gateway.Requests[0].ImageURL != "" {
		t.Errorf("image = %q, want empty", f.gateway.Requests[0].ImageURL)
	}
}

func TestCreateCheckoutSession_GatewayDeclines(t *testing.T) {
	tests := []struct {
		name    string
		session *payment.CheckoutSession
		err     error
	}{
		{"gateway error", nil, payment.ErrCheckoutFailed},
		{"empty url", &payment.CheckoutSession{ID: "cs_test_nourl"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPurchaseFixture(t, true)
			f.gateway.CreateFunc = func(context.Context, payment.CheckoutRequest) (*payment.CheckoutSession, error) {
				return tt.session, tt.err
			}

			_, err := f.svc.CreateCheckoutSession(context.Background(), f.student, f.course)
			if !errors.Is(err, apperrors.ErrCheckoutDeclined) {
				t.Fatalf("expected ErrCheckoutDeclined, got %v", err)
			}

			if len(f.db.purchases) != 1 {
				t.Fatalf("pending purchase should remain, got %d", len(f.db.purchases))
			}
			for _, p := range f.db.purchases {
				if p.Status != models.PurchaseStatusPending || p.PaymentID != nil {
					t.Errorf("unexpected purchase %+v", p)
				}
			}
		})
	}
}

func TestCreateCheckoutSession_NoDedupOfPendingAttempts(t *testing.T) {
	f := newPurchaseFixture(t, true)
	f.checkout(t, f.student, f.course)
	f.checkout(t, f.student, f.course)
	if len(f.db.purchases) != 2 {
		t.Fatalf("expected two pending purchases, got %d", len(f.db.purchases))
	}
}

func TestHandleWebhook_CompletesPurchase(t *testing.T) {
	f := newPurchaseFixture(t, true)
	p := f.checkout(t, f.student, f.course)

	if err := f.deliver(t, "evt_1", p, 45000); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	got := f.db.purchases[p.ID]
	if got.Status != models.PurchaseStatusCompleted {
		t.Errorf("status = %s", got.Status)
	}
	if got.Amount != 450 {
		t.Errorf("amount = %v, want gateway-reported 450", got.Amount)
	}
	if !f.db.enrollments[enrollmentKey{f.course, f.student}] {
		t.Error("student should be enrolled")
	}
	for _, id := range f.lectures {
		if !f.db.lectures[id].IsPreviewFree {
			t.Errorf("lecture %d should be preview free", id)
		}
	}

	event := f.db.events[eventKey(payment.ProviderStripe, "evt_1")]
	if event.Status != models.GatewayEventProcessed || event.PurchaseID == nil || *event.PurchaseID != p.ID {
		t.Errorf("unexpected event log entry %+v", event)
	}
	if f.tx.calls != 1 {
		t.Errorf("expected one transaction, got %d", f.tx.calls)
	}
}

func TestHandleWebhook_RedeliveryIsIdempotent(t *testing.T) {
	f := newPurchaseFixture(t, true)
	p := f.checkout(t, f.student, f.course)

	if err := f.deliver(t, "evt_1", p, 50000); err != nil {
		t.Fatalf("first delivery: %v", err)
	}
	first := f.db.snapshot()

	if err := f.deliver(t, "evt_1", p, 50000); err != nil {
		t.Fatalf("second delivery: %v", err)
	}
	second := f.db.snapshot()

	if len(first.enrollments) != 1 || len(second.enrollments) != 1 {
		t.Errorf("enrollments = %d then %d, want 1", len(first.enrollments), len(second.enrollments))
	}
	a, b := first.purchases[p.ID], second.purchases[p.ID]
	if a.Status != b.Status || a.Amount != b.Amount {
		t.Errorf("purchase changed on redelivery: %+v vs %+v", a, b)
	}
	for id := range first.lectures {
		if first.lectures[id].IsPreviewFree != second.lectures[id].IsPreviewFree {
			t.Errorf("lecture %d changed on redelivery", id)
		}
	}
	if len(f.db.events) != 1 {
		t.Errorf("event log should hold one entry, got %d", len(f.db.events))
	}
}

func TestHandleWebhook_InvalidSignature(t *testing.T) {
	f := newPurchaseFixture(t, true)
	p := f.checkout(t, f.student, f.course)
	before := f.db.snapshot()

	payload := completedEvent("evt_bad", *p.PaymentID, 50000)
	signatures := map[string]string{
		"missing":      "",
		"wrong secret": signPayload(payload, "whsec_attacker"),
		"tampered":     signPayload(completedEvent("evt_bad", *p.PaymentID, 1), testWebhookSecret),
	}

	for name, sig := range signatures {
		t.Run(name, func(t *testing.T) {
			err := f.svc.HandleWebhook(context.Background(), payload, sig)
			if !errors.Is(err, apperrors.ErrSignatureInvalid) {
				t.Fatalf("expected ErrSignatureInvalid, got %v", err)
			}
		})
	}

	if f.db.purchases[p.ID] != before.purchases[p.ID] {
		t.Error("purchase must not change")
	}
	if len(f.db.enrollments) != 0 || len(f.db.events) != 0 {
		t.Error("no enrollment or event may be written")
	}
}

func TestHandleWebhook_UnknownSession(t *testing.T) {
	f := newPurchaseFixture(t, true)

	payload := completedEvent("evt_x", "cs_test_unknown", 50000)
	err := f.svc.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret))
	if !errors.Is(err, apperrors.ErrPurchaseNotFound) {
		t.Fatalf("expected ErrPurchaseNotFound, got %v", err)
	}
	if f.db.events[eventKey(payment.ProviderStripe, "evt_x")].Status != models.GatewayEventFailed {
		t.Error("event should be logged as failed")
	}
}

func TestHandleWebhook_PurchaseUserMissing(t *testing.T) {
	f := newPurchaseFixture(t, true)
	p := f.checkout(t, f.student, f.course)
	delete(f.db.users, f.student)

	err := f.deliver(t, "evt_1", p, 50000)
	if !errors.Is(err, apperrors.ErrPurchaseNotFound) {
		t.Fatalf("expected ErrPurchaseNotFound, got %v", err)
	}
	if f.db.purchases[p.ID].Status != models.PurchaseStatusPending {
		t.Error("purchase must stay pending")
	}
}

func TestHandleWebhook_IgnoresOtherEvents(t *testing.T) {
	f := newPurchaseFixture(t, true)
	p := f.checkout(t, f.student, f.course)

	payload := []byte(`{"id":"evt_pi","object":"event","type":"payment_intent.succeeded","data":{"object":{"id":"pi_1","object":"payment_intent"}}}`)
	if err := f.svc.HandleWebhook(context.Background(), payload, signPayload(payload, testWebhookSecret)); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}

	if f.db.purchases[p.ID].Status != models.PurchaseStatusPending {
		t.Error("purchase must stay pending")
	}
	if f.tx.calls != 0 {
		t.Error("no transaction expected for ignored events")
	}
	if f.db.events[eventKey(payment.ProviderStripe, "evt_pi")].Status != models.GatewayEventIgnored {
		t.Error("event should be logged as ignored")
	}
}

func TestHandleWebhook_PersistenceFailureRollsBack(t *testing.T) {
	f := newPurchaseFixture(t, true)
	p := f.checkout(t, f.student, f.course)
	f.db.FailOn["Enrollment.Add"] = ErrMockStorage

	err := f.deliver(t, "evt_1", p, 50000)
	if !errors.Is(err, apperrors.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}

	if f.db.purchases[p.ID].Status != models.PurchaseStatusPending {
		t.Error("purchase completion must roll back")
	}
	for _, id := range f.lectures[1:] {
		if f.db.lectures[id].IsPreviewFree {
			t.Errorf("lecture %d unlock must roll back", id)
		}
	}

	delete(f.db.FailOn, "Enrollment.Add")
	if err := f.deliver(t, "evt_1", p, 50000); err != nil {
		t.Fatalf("redelivery after failure: %v", err)
	}
	if f.db.purchases[p.ID].Status != models.PurchaseStatusCompleted {
		t.Error("redelivery should complete the purchase")
	}
}

func TestHandleWebhook_EventLogFailureDoesNotBlock(t *testing.T) {
	f := newPurchaseFixture(t, true)
	p := f.checkout(t, f.student, f.course)
	f.db.FailOn["Events.Record"] = ErrMockStorage

	if err := f.deliver(t, "evt_1", p, 50000); err != nil {
		t.Fatalf("HandleWebhook: %v", err)
	}
	if f.db.purchases[p.ID].Status != models.PurchaseStatusCompleted {
		t.Error("purchase should complete without the event log")
	}
}

func TestGetCourseDetailWithStatus(t *testing.T) {
	f := newPurchaseFixture(t, false)
	ctx := context.Background()

	detail, err := f.svc.GetCourseDetailWithStatus(ctx, f.student, f.course)
	if err != nil {
		t.Fatalf("GetCourseDetailWithStatus: %v", err)
	}
	if detail.Purchased {
		t.Error("no purchase yet")
	}
	if detail.Course.Creator == nil || detail.Course.Creator.Name != "Instructor" {
		t.Errorf("creator = %+v", detail.Course.Creator)
	}
	if len(detail.Course.Lectures) != 3 {
		t.Fatalf("lectures = %d", len(detail.Course.Lectures))
	}
	for i, l := range detail.Course.Lectures {
		if l.Position != i+1 {
			t.Errorf("lecture order: %+v", detail.Course.Lectures)
		}
		if l.Accessible != (i == 0) {
			t.Errorf("lecture %d accessible = %v", i, l.Accessible)
		}
	}

	p := f.checkout(t, f.student, f.course)
	detail, _ = f.svc.GetCourseDetailWithStatus(ctx, f.student, f.course)
	if detail.Purchased {
		t.Error("pending purchase must not count as purchased")
	}

	if err := f.deliver(t, "evt_1", p, 50000); err != nil {
		t.Fatal(err)
	}
	detail, _ = f.svc.GetCourseDetailWithStatus(ctx, f.student, f.course)
	if !detail.Purchased {
		t.Error("completed purchase should count")
	}
	for _, l := range detail.Course.Lectures {
		if !l.Accessible || l.VideoURL == nil {
			t.Errorf("buyer should access lecture %+v", l)
		}
	}
	if len(detail.Course.EnrolledStudents) != 1 || detail.Course.EnrolledStudents[0] != f.student {
		t.Errorf("enrolled = %v", detail.Course.EnrolledStudents)
	}

	other, _ := f.svc.GetCourseDetailWithStatus(ctx, f.other, f.course)
	if other.Purchased {
		t.Error("another user has not purchased")
	}
	if other.Course.Lectures[1].Accessible {
		t.Error("without global unlock other users stay locked")
	}
}

func TestGetCourseDetailWithStatus_NotFound(t *testing.T) {
	f := newPurchaseFixture(t, true)
	_, err := f.svc.GetCourseDetailWithStatus(context.Background(), f.student, 4242)
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetAllPurchasedCourses_OnlyCompletedOfCaller(t *testing.T) {
	f := newPurchaseFixture(t, true)

	mine := f.checkout(t, f.student, f.course)
	f.checkout(t, f.student, f.freeCourse)
	theirs := f.checkout(t, f.other, f.freeCourse)

	if err := f.deliver(t, "evt_1", mine, 50000); err != nil {
		t.Fatal(err)
	}
	if err := f.deliver(t, "evt_2", theirs, 20000); err != nil {
		t.Fatal(err)
	}

	resp, err := f.svc.GetAllPurchasedCourses(context.Background(), f.student)
	if err != nil {
		t.Fatalf("GetAllPurchasedCourses: %v", err)
	}
	if len(resp.PurchasedCourse) != 1 {
		t.Fatalf("expected 1 purchase, got %+v", resp.PurchasedCourse)
	}
	got := resp.PurchasedCourse[0]
	if got.ID != mine.ID || got.Course == nil || got.Course.ID != f.course || got.Status != models.PurchaseStatusCompleted {
		t.Errorf("unexpected purchase %+v", got)
	}

	empty, err := f.svc.GetAllPurchasedCourses(context.Background(), 777)
	if err != nil || empty.PurchasedCourse == nil || len(empty.PurchasedCourse) != 0 {
		t.Errorf("expected empty list, got %+v, %v", empty, err)
	}
}

func TestGetPurchaseSummary(t *testing.T) {
	f := newPurchaseFixture(t, true)
	a := f.checkout(t, f.student, f.course)
	b := f.checkout(t, f.student, f.freeCourse)
	f.checkout(t, f.student, f.course)

	if err := f.deliver(t, "evt_a", a, 50000); err != nil {
		t.Fatal(err)
	}
	if err := f.deliver(t, "evt_b", b, 20000); err != nil {
		t.Fatal(err)
	}

	summary, err := f.svc.GetPurchaseSummary(context.Background(), f.student)
	if err != nil {
		t.Fatalf("GetPurchaseSummary: %v", err)
	}
	if summary.TotalSales != 2 || summary.TotalRevenue != 700 {
		t.Errorf("summary = %+v", summary)
	}
}

func TestGetLectureAccess(t *testing.T) {
	f := newPurchaseFixture(t, false)
	ctx := context.Background()
	free, locked := f.lectures[0], f.lectures[1]

	resp, err := f.svc.GetLectureAccess(ctx, f.student, f.course, free)
	if err != nil || resp.Lecture.VideoURL == nil {
		t.Fatalf("free preview should be accessible: %+v, %v", resp, err)
	}

	if _, err := f.svc.GetLectureAccess(ctx, f.student, f.course, locked); !errors.Is(err, apperrors.ErrLectureLocked) {
		t.Fatalf("expected ErrLectureLocked, got %v", err)
	}
	if _, err := f.svc.GetLectureAccess(ctx, f.student, f.freeCourse, locked); !errors.Is(err, apperrors.ErrLectureNotFound) {
		t.Fatalf("expected ErrLectureNotFound for a lecture of another course, got %v", err)
	}

	p := f.checkout(t, f.student, f.course)
	if err := f.deliver(t, "evt_1", p, 50000); err != nil {
		t.Fatal(err)
	}

	resp, err = f.svc.GetLectureAccess(ctx, f.student, f.course, locked)
	if err != nil || !resp.Lecture.Accessible || resp.Lecture.VideoURL == nil {
		t.Fatalf("buyer should access locked lecture: %+v, %v", resp, err)
	}
	if _, err := f.svc.GetLectureAccess(ctx, f.other, f.course, locked); !errors.Is(err, apperrors.ErrLectureLocked) {
		t.Fatalf("other user should stay locked, got %v", err)
	}
}

func TestPurchaseWorkflow_EndToEnd(t *testing.T) {
	f := newPurchaseFixture(t, true)
	ctx := context.Background()

	resp, err := f.svc.CreateCheckoutSession(ctx, f.student, f.course)
	if err != nil || !resp.Success || resp.URL == "" {
		t.Fatalf("checkout: %+v, %v", resp, err)
	}

	var p models.CoursePurchase
	for _, stored := range f.db.purchases {
		p = stored
	}
	if p.Status != models.PurchaseStatusPending || p.Amount != 500 {
		t.Fatalf("pending purchase = %+v", p)
	}

	payload := completedEvent("evt_e2e", *p.PaymentID, 50000)
	sig := signPayload(payload, testWebhookSecret)
	if err := f.svc.HandleWebhook(ctx, payload, sig); err != nil {
		t.Fatalf("webhook: %v", err)
	}

	p = f.db.purchases[p.ID]
	if p.Status != models.PurchaseStatusCompleted || p.Amount != 500 {
		t.Errorf("completed purchase = %+v", p)
	}
	profileCourses, _ := memEnrollments{f.db}.CourseIDs(ctx, f.student)
	students, _ := memEnrollments{f.db}.StudentIDs(ctx, f.course)
	if len(profileCourses) != 1 || profileCourses[0] != f.course || len(students) != 1 || students[0] != f.student {
		t.Errorf("enrollment sets = %v / %v", profileCourses, students)
	}
	for _, id := range f.lectures {
		if !f.db.lectures[id].IsPreviewFree {
			t.Errorf("lecture %d should be preview free", id)
		}
	}

	detail, _ := f.svc.GetCourseDetailWithStatus(ctx, f.student, f.course)
	if !detail.Purchased {
		t.Error("detail should report purchased")
	}

	before := f.db.snapshot()
	if err := f.svc.HandleWebhook(ctx, payload, sig); err != nil {
		t.Fatalf("redelivery: %v", err)
	}
	after := f.db.snapshot()
	if len(before.enrollments) != len(after.enrollments) || before.purchases[p.ID].Status != after.purchases[p.ID].Status {
		t.Error("redelivery must not change state")
	}

	tampered := completedEvent("evt_e2e", *p.PaymentID, 1)
	if err := f.svc.HandleWebhook(ctx, tampered, sig); !errors.Is(err, apperrors.ErrSignatureInvalid) {
		t.Errorf("tampered payload: %v", err)
	}

	other, _ := f.svc.GetCourseDetailWithStatus(ctx, f.student, f.freeCourse)
	if other.Purchased {
		t.Error("unpurchased course must report false")
	}
}
