package catalog

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func selectionGen() gopter.Gen {
	values := gen.SliceOf(gen.Identifier())
	return gopter.CombineGens(values, values, values).Map(func(vs []interface{}) Selection {
		s := Selection{}
		for i, g := range testGroups {
			if v := vs[i].([]string); len(v) > 0 {
				s[g] = v
			}
		}
		return s
	})
}

func TestSelectionProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("decode(encode(s)) reproduces s", prop.ForAll(
		func(s Selection) bool {
			return Decode(Encode(s), testGroups).Equal(s)
		},
		selectionGen(),
	))

	properties.Property("encoding is canonical", prop.ForAll(
		func(s Selection) bool {
			return EncodeQuery(Decode(Encode(s), testGroups)) == EncodeQuery(s)
		},
		selectionGen(),
	))

	properties.Property("normalize is idempotent", prop.ForAll(
		func(s Selection) bool {
			n := s.Normalize()
			return n.Equal(n.Normalize()) && len(n) == len(n.Normalize())
		},
		selectionGen(),
	))

	properties.TestingRun(t)
}
