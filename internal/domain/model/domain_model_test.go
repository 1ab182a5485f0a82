package model_test

import (
	"testing"
	"time"

	"telegram-vip-codes/internal/domain/model"
)

func TestValidCodeFormat(t *testing.T) {
	valid := []string{"ABC123", "VIP1", "X", "2024", "PROMOCODE"}
	for _, s := range valid {
		if !model.ValidCodeFormat(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}

	invalid := []string{"", "abc123", "CODE-1", "CÓDIGO", "VIP 1", "VIP.1", "vip", "AB_C", " ABC", "ABC\n"}
	for _, s := range invalid {
		if model.ValidCodeFormat(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestCodeUsage(t *testing.T) {
	c := &model.Code{Code: "ABC123", RoleID: "vip", RoleName: "VIP", MaxUses: 2, CreatedBy: 1, CreatedAt: time.Now()}

	u := model.CodeUsage{Code: c, UsedCount: 0}
	if u.Expired() {
		t.Error("fresh code should not be expired")
	}
	if got := u.Remaining(); got != 2 {
		t.Errorf("remaining = %d, want 2", got)
	}

	u.UsedCount = 2
	if !u.Expired() {
		t.Error("fully used code should be expired")
	}
	if got := u.Remaining(); got != 0 {
		t.Errorf("remaining = %d, want 0", got)
	}
}
