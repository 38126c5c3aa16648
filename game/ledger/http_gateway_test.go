package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPGateway_LockEscrow(t *testing.T) {
	var got lockRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/escrow/lock" {
			t.Errorf("Expected path /escrow/lock, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(ledgerResponse{Ref: "escrow-123"})
	}))
	defer server.Close()

	gw := NewHTTPGateway(server.URL, time.Second)
	ref, err := gw.LockEscrow(context.Background(), "AB12CD", "white", "alice", 100)
	if err != nil {
		t.Fatalf("LockEscrow failed: %v", err)
	}
	if ref != "escrow-123" {
		t.Errorf("Expected ref 'escrow-123', got '%s'", ref)
	}
	if got.RoomID != "AB12CD" || got.Seat != "white" || got.PlayerID != "alice" || got.Amount != 100 {
		t.Errorf("Unexpected lock request: %+v", got)
	}
}

func TestHTTPGateway_ReleasePayout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/payout/release" {
			t.Errorf("Expected path /payout/release, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ledgerResponse{TxRef: "tx-77"})
	}))
	defer server.Close()

	gw := NewHTTPGateway(server.URL, time.Second)
	tx, err := gw.ReleasePayout(context.Background(), "AB12CD", "black")
	if err != nil {
		t.Fatalf("ReleasePayout failed: %v", err)
	}
	if tx != "tx-77" {
		t.Errorf("Expected tx 'tx-77', got '%s'", tx)
	}
}

func TestHTTPGateway_RefundEscrow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/escrow/refund" {
			t.Errorf("Expected path /escrow/refund, got %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(ledgerResponse{TxRef: "tx-refund"})
	}))
	defer server.Close()

	gw := NewHTTPGateway(server.URL, time.Second)
	tx, err := gw.RefundEscrow(context.Background(), "AB12CD")
	if err != nil {
		t.Fatalf("RefundEscrow failed: %v", err)
	}
	if tx != "tx-refund" {
		t.Errorf("Expected tx 'tx-refund', got '%s'", tx)
	}
}

func TestHTTPGateway_Failures(t *testing.T) {
	t.Run("http error status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		gw := NewHTTPGateway(server.URL, time.Second)
		_, err := gw.LockEscrow(context.Background(), "AB12CD", "white", "alice", 100)
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("Expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("application error in envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(ledgerResponse{Error: "insufficient funds"})
		}))
		defer server.Close()

		gw := NewHTTPGateway(server.URL, time.Second)
		_, err := gw.LockEscrow(context.Background(), "AB12CD", "white", "alice", 100)
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("Expected ErrUnavailable, got %v", err)
		}
	})

	t.Run("unreachable server", func(t *testing.T) {
		gw := NewHTTPGateway("http://127.0.0.1:1", 100*time.Millisecond)
		_, err := gw.RefundEscrow(context.Background(), "AB12CD")
		if !errors.Is(err, ErrUnavailable) {
			t.Errorf("Expected ErrUnavailable, got %v", err)
		}
	})
}
