package session

import (
	"errors"
	"testing"
	"time"
)

func TestRoomCodes(t *testing.T) {
	t.Run("generated codes are valid", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			code := NewCode()
			if !ValidCode(code) {
				t.Fatalf("Generated code %q is not valid", code)
			}
		}
	})

	t.Run("generated codes vary", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			seen[NewCode()] = true
		}
		if len(seen) < 2 {
			t.Error("Expected generated codes to differ")
		}
	})

	t.Run("validation", func(t *testing.T) {
		valid := []string{"AB12CD", "ZZZZZZ", "234567"}
		for _, code := range valid {
			if !ValidCode(code) {
				t.Errorf("Expected %q to be valid", code)
			}
		}
		invalid := []string{"", "abc", "ab12cd", "AB12C", "AB12CDE", "AB 2CD", "AB-2CD"}
		for _, code := range invalid {
			if ValidCode(code) {
				t.Errorf("Expected %q to be invalid", code)
			}
		}
	})
}

func TestStore_Create(t *testing.T) {
	store := NewStore()

	t.Run("create with custom code", func(t *testing.T) {
		sess, err := store.Create("AB12CD", "chess", "startpos")
		if err != nil {
			t.Fatalf("Failed to create room: %v", err)
		}
		if sess.RoomID != "AB12CD" {
			t.Errorf("Expected room ID 'AB12CD', got '%s'", sess.RoomID)
		}
		if sess.Status != StatusWaiting {
			t.Errorf("Expected status waiting, got %s", sess.Status)
		}
		if sess.Position != "startpos" {
			t.Errorf("Expected initial position to be recorded, got '%s'", sess.Position)
		}
	})

	t.Run("create with generated code", func(t *testing.T) {
		sess, err := store.Create("", "chess", "startpos")
		if err != nil {
			t.Fatalf("Failed to create room: %v", err)
		}
		if !ValidCode(sess.RoomID) {
			t.Errorf("Expected a valid generated code, got '%s'", sess.RoomID)
		}
	})

	t.Run("duplicate code", func(t *testing.T) {
		_, err := store.Create("AB12CD", "chess", "startpos")
		if !errors.Is(err, ErrRoomAlreadyExists) {
			t.Errorf("Expected ErrRoomAlreadyExists, got %v", err)
		}
	})

	t.Run("invalid code", func(t *testing.T) {
		_, err := store.Create("nope", "chess", "startpos")
		if !errors.Is(err, ErrInvalidRoomCode) {
			t.Errorf("Expected ErrInvalidRoomCode, got %v", err)
		}
	})
}

func TestStore_Get(t *testing.T) {
	store := NewStore()
	store.Create("AB12CD", "chess", "startpos")

	t.Run("existing room", func(t *testing.T) {
		sess, err := store.Get("AB12CD")
		if err != nil {
			t.Fatalf("Failed to get room: %v", err)
		}
		if sess.RoomID != "AB12CD" {
			t.Errorf("Expected room 'AB12CD', got '%s'", sess.RoomID)
		}
	})

	t.Run("missing room", func(t *testing.T) {
		_, err := store.Get("ZZZZZZ")
		if !errors.Is(err, ErrRoomNotFound) {
			t.Errorf("Expected ErrRoomNotFound, got %v", err)
		}
	})
}

func TestStore_GetOrCreate(t *testing.T) {
	store := NewStore()

	t.Run("creates when missing", func(t *testing.T) {
		sess, created, err := store.GetOrCreate("AB12CD", "chess", "startpos")
		if err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}
		if !created {
			t.Error("Expected created=true for new room")
		}
		if sess.RoomID != "AB12CD" {
			t.Errorf("Expected room 'AB12CD', got '%s'", sess.RoomID)
		}
	})

	t.Run("returns existing", func(t *testing.T) {
		sess, created, err := store.GetOrCreate("AB12CD", "tictactoe", "---------:X")
		if err != nil {
			t.Fatalf("GetOrCreate failed: %v", err)
		}
		if created {
			t.Error("Expected created=false for existing room")
		}
		if sess.Game != "chess" {
			t.Errorf("Expected existing room to keep its game, got '%s'", sess.Game)
		}
	})

	t.Run("invalid code", func(t *testing.T) {
		_, _, err := store.GetOrCreate("bad", "chess", "startpos")
		if !errors.Is(err, ErrInvalidRoomCode) {
			t.Errorf("Expected ErrInvalidRoomCode, got %v", err)
		}
	})
}

func TestStore_Remove(t *testing.T) {
	store := NewStore()
	store.Create("AB12CD", "chess", "startpos")

	if err := store.Remove("AB12CD"); err != nil {
		t.Fatalf("Failed to remove room: %v", err)
	}
	if _, err := store.Get("AB12CD"); !errors.Is(err, ErrRoomNotFound) {
		t.Error("Expected room to be gone after removal")
	}
	if err := store.Remove("AB12CD"); !errors.Is(err, ErrRoomNotFound) {
		t.Errorf("Expected ErrRoomNotFound on double removal, got %v", err)
	}
}

func TestStore_ListAndCount(t *testing.T) {
	store := NewStore()
	if store.Count() != 0 {
		t.Errorf("Expected empty store, got %d rooms", store.Count())
	}

	store.Create("AAAAAA", "chess", "startpos")
	store.Create("BBBBBB", "chess", "startpos")

	if store.Count() != 2 {
		t.Errorf("Expected 2 rooms, got %d", store.Count())
	}
	if len(store.List()) != 2 {
		t.Errorf("Expected 2 rooms from List, got %d", len(store.List()))
	}
}

func TestStore_CleanupExpired(t *testing.T) {
	store := NewStore()

	old := time.Now().Add(-time.Hour)

	ended, _ := store.Create("AAAAAA", "chess", "startpos")
	ended.Lock()
	ended.Status = StatusEnded
	ended.LastActiveAt = old
	ended.Unlock()

	abandoned, _ := store.Create("BBBBBB", "chess", "startpos")
	abandoned.Lock()
	abandoned.Status = StatusAbandoned
	abandoned.LastActiveAt = old
	abandoned.Unlock()

	// Active rooms are never evicted here regardless of age.
	active, _ := store.Create("CCCCCC", "chess", "startpos")
	active.Lock()
	active.Status = StatusActive
	active.LastActiveAt = old
	active.Unlock()

	// Recent terminal room stays within the TTL.
	recent, _ := store.Create("DDDDDD", "chess", "startpos")
	recent.Lock()
	recent.Status = StatusEnded
	recent.Unlock()

	removed := store.CleanupExpired(30 * time.Minute)
	if removed != 2 {
		t.Errorf("Expected 2 rooms removed, got %d", removed)
	}
	if _, err := store.Get("AAAAAA"); err == nil {
		t.Error("Expected old ended room to be evicted")
	}
	if _, err := store.Get("BBBBBB"); err == nil {
		t.Error("Expected old abandoned room to be evicted")
	}
	if _, err := store.Get("CCCCCC"); err != nil {
		t.Error("Expected active room to survive cleanup")
	}
	if _, err := store.Get("DDDDDD"); err != nil {
		t.Error("Expected recent ended room to survive cleanup")
	}
}
