package arithmetic

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/TecharoHQ/sphinx/lib/challenge/challengetest"
	"github.com/TecharoHQ/sphinx/lib/config"
)

func TestGenerate(t *testing.T) {
	rng := challengetest.Rand(t)
	cfg := config.Default()
	cfg.Math = true

	lefts := map[int]bool{}
	rights := map[int]bool{}

	for range 2000 {
		p, err := Impl{}.Generate(rng, cfg)
		if err != nil {
			t.Fatal(err)
		}

		var x, y int
		if _, err := fmt.Sscanf(p.Plaintext, "%d + %d = ", &x, &y); err != nil {
			t.Fatalf("can't parse %q: %v", p.Plaintext, err)
		}

		if want := fmt.Sprintf("%d + %d = ", x, y); p.Plaintext != want {
			t.Errorf("plaintext %q is not formatted like %q", p.Plaintext, want)
		}

		if x < MinLeft || x > MaxLeft {
			t.Errorf("left operand %d out of range", x)
		}

		if y < MinRight || y > MaxRight {
			t.Errorf("right operand %d out of range", y)
		}

		if p.Answer != strconv.Itoa(x+y) {
			t.Errorf("%q: want answer %d, got %q", p.Plaintext, x+y, p.Answer)
		}

		lefts[x] = true
		rights[y] = true
	}

	if len(lefts) != MaxLeft-MinLeft+1 {
		t.Errorf("not every left operand was drawn: %d of %d", len(lefts), MaxLeft-MinLeft+1)
	}

	if len(rights) != MaxRight-MinRight+1 {
		t.Errorf("not every right operand was drawn: %d of %d", len(rights), MaxRight-MinRight+1)
	}
}
