package hasher_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/hasher"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func digest(t *testing.T, v any) string {
	t.Helper()

	d, err := hasher.Digest(v)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to hash the value: %v", failed, err)
	}
	return d
}

func Test_Sum(t *testing.T) {
	const exp = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

	if got := hasher.Sum(nil); got != exp {
		t.Logf("got: %s", got)
		t.Logf("exp: %s", exp)
		t.Fatalf("\t%s\tShould get back the digest of no data.", failed)
	}
	t.Logf("\t%s\tShould get back the digest of no data.", success)

	const puzzle = "0000c415de5ceea33c02daa85a1c218ecca1b1c9e9864ed34d183597844de8e2"

	if got := hasher.Sum([]byte("10035293")); got != puzzle {
		t.Logf("got: %s", got)
		t.Logf("exp: %s", puzzle)
		t.Fatalf("\t%s\tShould get back the lowercase hex digest.", failed)
	}
	t.Logf("\t%s\tShould get back the lowercase hex digest.", success)
}

func Test_Canonical(t *testing.T) {
	type ab struct {
		B string `json:"b"`
		A int    `json:"a"`
	}

	type ba struct {
		A int    `json:"a"`
		B string `json:"b"`
	}

	t.Log("Given the need to hash values independent of field order.")
	{
		t.Logf("\tTest 0:\tWhen handling structs declared in different orders.")
		{
			data, err := hasher.Canonical(ab{B: "x", A: 1})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to encode the value: %v", failed, err)
			}

			const exp = `{"a":1,"b":"x"}`
			if string(data) != exp {
				t.Logf("\t\tTest 0:\tgot: %s", data)
				t.Logf("\t\tTest 0:\texp: %s", exp)
				t.Fatalf("\t%s\tTest 0:\tShould get keys in sorted order.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get keys in sorted order.", success)

			if digest(t, ab{B: "x", A: 1}) != digest(t, ba{A: 1, B: "x"}) {
				t.Fatalf("\t%s\tTest 0:\tShould get the same digest for the same fields.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get the same digest for the same fields.", success)
		}

		t.Logf("\tTest 1:\tWhen handling nested maps.")
		{
			v := map[string]any{
				"z": map[string]any{"y": 2, "x": 1},
				"a": []any{map[string]any{"d": true, "c": nil}},
			}

			data, err := hasher.Canonical(v)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to encode the value: %v", failed, err)
			}

			const exp = `{"a":[{"c":null,"d":true}],"z":{"x":1,"y":2}}`
			if string(data) != exp {
				t.Logf("\t\tTest 1:\tgot: %s", data)
				t.Logf("\t\tTest 1:\texp: %s", exp)
				t.Fatalf("\t%s\tTest 1:\tShould sort keys at every level.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould sort keys at every level.", success)
		}

		t.Logf("\tTest 2:\tWhen hashing the same value twice.")
		{
			v := ba{A: 42, B: "same"}
			if digest(t, v) != digest(t, v) {
				t.Fatalf("\t%s\tTest 2:\tShould be deterministic.", failed)
			}
			if digest(t, v) == digest(t, ba{A: 43, B: "same"}) {
				t.Fatalf("\t%s\tTest 2:\tShould change when a field changes.", failed)
			}
			t.Logf("\t%s\tTest 2:\tShould be deterministic and sensitive to content.", success)
		}
	}
}

func Test_DigestFailure(t *testing.T) {
	t.Log("Given the need to refuse values that cannot be hashed faithfully.")
	{
		t.Logf("\tTest 0:\tWhen handling a value that cannot be encoded.")
		{
			digest, err := hasher.Digest(make(chan int))
			if err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould get an error, got digest %s.", failed, digest)
			}
			if digest == hasher.ZeroDigest {
				t.Fatalf("\t%s\tTest 0:\tShould not get the zero digest.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould get an error.", success)
		}

		t.Logf("\tTest 1:\tWhen handling strings that are not valid UTF-8.")
		{
			values := []any{
				"\xff",
				struct {
					Payload string `json:"payload"`
				}{Payload: "\xfe"},
				map[string]any{"k": []any{"ok", "\xff"}},
				map[string]int{"\xff": 1},
			}

			for _, v := range values {
				if _, err := hasher.Digest(v); !errors.Is(err, hasher.ErrInvalidUTF8) {
					t.Fatalf("\t%s\tTest 1:\tShould get ErrInvalidUTF8 for %#v, got %v.", failed, v, err)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrInvalidUTF8.", success)

			if _, err := hasher.Digest("h\u00e9llo \U0001F600"); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould accept valid multi-byte text: %v", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould accept valid multi-byte text.", success)
		}
	}
}
