package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := &pq.Error{Code: "23505", Constraint: "users_email_key"}

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "bare pq unique violation", err: unique, want: true},
		{name: "wrapped unique violation", err: fmt.Errorf("failed to create user: %w", unique), want: true},
		{name: "other pq error", err: &pq.Error{Code: "23503"}, want: false},
		{name: "plain error", err: errors.New("connection refused"), want: false},
		{name: "nil", err: nil, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Errorf("IsUniqueViolation() = %v, want %v", got, tt.want)
			}
		})
	}
}
