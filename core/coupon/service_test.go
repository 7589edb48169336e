package coupon

import (
	"testing"
	"time"
)

type memRepo struct {
	coupons map[string]Coupon
}

var _ Repository = (*memRepo)(nil)

func newMemRepo() *memRepo {
	return &memRepo{coupons: make(map[string]Coupon)}
}

func (r *memRepo) CreateCoupon(cpn Coupon) (Coupon, error) {
	r.coupons[cpn.Code] = cpn
	return cpn, nil
}

func (r *memRepo) GetCouponByCode(code string) (Coupon, error) {
	if cpn, ok := r.coupons[code]; ok {
		return cpn, nil
	}
	return Coupon{}, ErrNotFound
}

func mockNow(t *testing.T, now time.Time) {
	t.Helper()
	NowFunc = func() time.Time { return now }
	t.Cleanup(func() { NowFunc = time.Now })
}

func TestService_Create(t *testing.T) {
	svc := NewService(newMemRepo())

	cpn, err := svc.Create(Coupon{Code: " KARIBU ", Discount: 30, Active: true})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if cpn.Code != "karibu" {
		t.Errorf("code = %q; want lowercased %q", cpn.Code, "karibu")
	}
	if cpn.CreatedAt.IsZero() {
		t.Error("missing CreatedAt")
	}
}

func TestService_Resolve(t *testing.T) {
	now := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)
	mockNow(t, now)

	svc := NewService(newMemRepo())
	mustCreate := func(cpn Coupon) {
		if _, err := svc.Create(cpn); err != nil {
			t.Fatalf("Create() failed: %v", err)
		}
	}
	mustCreate(Coupon{Code: "karibu", Discount: 30, Active: true})
	mustCreate(Coupon{Code: "zamani", Discount: 30, Active: true, ExpiresAt: now.Add(-time.Hour)})
	mustCreate(Coupon{Code: "baadaye", Discount: 30, Active: true, ExpiresAt: now.Add(time.Hour)})
	mustCreate(Coupon{Code: "imezimwa", Discount: 30, Active: false})

	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{name: "active without expiry", code: "karibu"},
		{name: "lookup is case-insensitive", code: "KARIBU"},
		{name: "not yet expired", code: "baadaye"},
		{name: "expired", code: "zamani", wantErr: ErrExpired},
		{name: "inactive", code: "imezimwa", wantErr: ErrInactive},
		{name: "unknown", code: "hakuna", wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cpn, err := svc.Resolve(tt.code)
			if err != tt.wantErr {
				t.Fatalf("Resolve() error = %v; want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && cpn.Discount != 30 {
				t.Errorf("discount = %v; want 30", cpn.Discount)
			}
		})
	}
}

func TestCoupon_expired(t *testing.T) {
	now := time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC)

	if (Coupon{}).expired(now) {
		t.Error("zero ExpiresAt must never expire")
	}
	if !(Coupon{ExpiresAt: now.Add(-time.Minute)}).expired(now) {
		t.Error("past ExpiresAt must be expired")
	}
	if (Coupon{ExpiresAt: now.Add(time.Minute)}).expired(now) {
		t.Error("future ExpiresAt must not be expired")
	}
}
