// Package testutil provides shared test helpers for the basic package tests.
package testutil

import (
	"strings"
	"testing"
)

// ContainsSubstring checks if haystack contains needle (case-insensitive).
func ContainsSubstring(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// Error represents any diagnostic with a GetError method.
type Error interface {
	GetError() string
}

// Messages extracts the text of every diagnostic, in order.
func Messages[E Error](errs []E) []string {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.GetError())
	}
	return messages
}

// AssertNoErrors fails the test if errors slice is not empty.
func AssertNoErrors[E Error](t *testing.T, errs []E) {
	t.Helper()
	if len(errs) != 0 {
		t.Errorf("Expected no errors, got %d: %q", len(errs), Messages(errs))
	}
}

// AssertErrorCount fails if error count doesn't match expected.
func AssertErrorCount[E Error](t *testing.T, errs []E, expected int) {
	t.Helper()
	if len(errs) != expected {
		t.Fatalf("Expected %d errors, got %d: %q", expected, len(errs), Messages(errs))
	}
}

// AssertErrorContains fails if no error contains the expected substring.
func AssertErrorContains[E Error](t *testing.T, errs []E, expected string) {
	t.Helper()
	if !HasErrorContaining(errs, expected) {
		t.Errorf("Expected error containing %q, got: %q", expected, Messages(errs))
	}
}

// RequireErrorContains is like AssertErrorContains but calls t.Fatal.
func RequireErrorContains[E Error](t *testing.T, errs []E, expected string) {
	t.Helper()
	if !HasErrorContaining(errs, expected) {
		t.Fatalf("Expected error containing %q, got: %q", expected, Messages(errs))
	}
}

// HasErrorContaining returns true if any error contains the expected substring.
func HasErrorContaining[E Error](errs []E, expected string) bool {
	for _, err := range errs {
		if ContainsSubstring(err.GetError(), expected) {
			return true
		}
	}
	return false
}
