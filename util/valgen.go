// Some helpers using closures to generate programs and inputs
package valgen

import (
	"math/rand"
	"strings"
)

// idioms are loop shapes the optimizer rewrites.
var idioms = []string{
	"[-]",
	"[+]",
	"[->+<]",
	"[-<+>]",
	"[->>+<<]",
	"[->-<]",
	"[-<<<->>>]",
	"[->+++<]",
	"[>+<-]",
	"[<++>-]",
}

// MakeProgramGen returns a generator of random programs with balanced
// brackets. Each program holds about size symbols and nests loops at most
// depth deep. Loops either are optimizer idioms or contain a decrement so
// they make progress on their own cell.
func MakeProgramGen(seed int64, size, depth int) func() string {
	rng := rand.New(rand.NewSource(seed))

	var gen func(sb *strings.Builder, budget, depth int)
	gen = func(sb *strings.Builder, budget, depth int) {
		for budget > 0 {
			switch r := rng.Intn(10); {
			case r < 4:
				n := 1 + rng.Intn(6)
				sb.WriteString(strings.Repeat(string("+-"[rng.Intn(2)]), n))
				budget -= n
			case r < 6:
				n := 1 + rng.Intn(3)
				sb.WriteString(strings.Repeat(string("<>"[rng.Intn(2)]), n))
				budget -= n
			case r < 7:
				sb.WriteByte(".,"[rng.Intn(2)])
				budget--
			case r < 8:
				idiom := idioms[rng.Intn(len(idioms))]
				sb.WriteString(idiom)
				budget -= len(idiom)
			default:
				if depth == 0 {
					continue
				}
				inner := 1 + rng.Intn(budget)
				sb.WriteString("[-")
				gen(sb, inner, depth-1)
				sb.WriteString("]")
				budget -= inner + 3
			}
		}
	}

	return func() string {
		var sb strings.Builder
		gen(&sb, size, depth)
		return sb.String()
	}
}

// MakeInputGen returns a generator of random input of up to maxLen bytes.
func MakeInputGen(seed int64, maxLen int) func() []byte {
	rng := rand.New(rand.NewSource(seed))
	return func() []byte {
		b := make([]byte, rng.Intn(maxLen+1))
		rng.Read(b)
		return b
	}
}
