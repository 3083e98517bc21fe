package uid

import (
	"testing"

	"github.com/google/uuid"
)

func TestSnowflakeUnique(t *testing.T) {
	// Arrange
	gen, err := NewSnowflake(1)
	if err != nil {
		t.Fatalf("NewSnowflake() error = %v", err)
	}
	seen := make(map[int64]struct{}, 1000)

	// Act & Assert
	var prev int64
	for range 1000 {
		id := gen.Generate()
		if id <= prev {
			t.Fatalf("Generate() = %d, not increasing after %d", id, prev)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = struct{}{}
		prev = id
	}
}

func TestSnowflakeNodeBounds(t *testing.T) {
	if _, err := NewSnowflake(1 << 20); err == nil {
		t.Fatal("NewSnowflake() with an out-of-range node succeeded")
	}
	if _, err := NewSnowflake(-1); err != nil {
		t.Skipf("no stable node identity on this host: %v", err)
	}
}

func TestUUIDGenerate(t *testing.T) {
	// Act
	id := NewUUID().Generate()

	// Assert
	parsed, err := uuid.Parse(id)
	if err != nil {
		t.Fatalf("uuid.Parse(%q) error = %v", id, err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("version = %d, want 7", parsed.Version())
	}
}
