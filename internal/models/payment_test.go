package models

import "testing"

func TestParsePaymentStatus(t *testing.T) {
	tests := []struct {
		value   string
		want    PaymentStatus
		wantErr bool
	}{
		{"PENDING", PaymentPending, false},
		{"PAID", PaymentPaid, false},
		{"REJECTED", PaymentRejected, false},
		{"paid", "", true},
		{"SETTLED", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePaymentStatus(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePaymentStatus(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePaymentStatus(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestParsePaymentType(t *testing.T) {
	tests := []struct {
		value   string
		want    PaymentType
		wantErr bool
	}{
		{"TUITION", PaymentTuition, false},
		{"REGISTRATION", PaymentRegistration, false},
		{"OTHER", PaymentOther, false},
		{"tuition", "", true},
		{"FEES", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePaymentType(tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePaymentType(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePaymentType(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestAppUser_Scopes(t *testing.T) {
	plain := &AppUser{Username: "jsmith"}
	scopes := plain.Scopes()
	if len(scopes) != 1 || scopes[0] != ScopeUser {
		t.Errorf("Expected plain user to carry only USER scope, got %v", scopes)
	}

	admin := &AppUser{
		Username: "root",
		Roles:    []AppRole{{Name: "ADMIN"}},
	}
	scopes = admin.Scopes()
	if len(scopes) != 2 || scopes[1] != ScopeAdmin {
		t.Errorf("Expected admin user to carry USER and ADMIN scopes, got %v", scopes)
	}

	other := &AppUser{
		Username: "clerk",
		Roles:    []AppRole{{Name: "REGISTRAR"}},
	}
	if other.HasRole("ADMIN") {
		t.Error("REGISTRAR role must not grant ADMIN")
	}
	scopes = other.Scopes()
	if len(scopes) != 1 {
		t.Errorf("Expected non-admin role to grant only USER scope, got %v", scopes)
	}
}
