package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash([]byte("11111"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "" || hash == "11111" {
		t.Fatalf("hash %q should be non-empty and not the plaintext", hash)
	}

	if err := h.Compare(hash, []byte("11111")); err != nil {
		t.Errorf("Compare with correct code: %v", err)
	}
	if err := h.Compare(hash, []byte("22222")); err == nil {
		t.Error("Compare with wrong code should fail")
	}
}

func TestNewHasher_CostClamping(t *testing.T) {
	testCases := []struct {
		name string
		cost int
		want int
	}{
		{"zero uses default", 0, bcrypt.DefaultCost},
		{"negative uses default", -1, bcrypt.DefaultCost},
		{"below min clamps", 2, bcrypt.MinCost},
		{"above max clamps", 40, bcrypt.MaxCost},
		{"in range kept", 10, 10},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewHasher(tc.cost).Cost; got != tc.want {
				t.Errorf("NewHasher(%d).Cost = %d, want %d", tc.cost, got, tc.want)
			}
		})
	}
}
