package identity_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powchain/foundation/identity"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const (
	pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"
	address  = "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4"
)

func Test_FromKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "node.ecdsa")
	if err := os.WriteFile(path, []byte(pkHexKey), 0600); err != nil {
		t.Fatalf("\t%s\tShould be able to write the key file: %v", failed, err)
	}

	id, err := identity.Resolve(path)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to load the key file: %v", failed, err)
	}

	if id != address {
		t.Logf("got: %s", id)
		t.Logf("exp: %s", address)
		t.Fatalf("\t%s\tShould get back the address of the key.", failed)
	}
	t.Logf("\t%s\tShould get back the address of the key.", success)

	if _, err := identity.Resolve(filepath.Join(t.TempDir(), "missing.ecdsa")); err == nil {
		t.Fatalf("\t%s\tShould fail on a missing key file.", failed)
	}
	t.Logf("\t%s\tShould fail on a missing key file.", success)
}

func Test_Random(t *testing.T) {
	a, err := identity.Resolve("")
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate an identifier: %v", failed, err)
	}

	if len(a) != 32 {
		t.Fatalf("\t%s\tShould get a 32 character identifier, got %q.", failed, a)
	}

	if a == identity.Random() {
		t.Fatalf("\t%s\tShould get a different identifier every time.", failed)
	}
	t.Logf("\t%s\tShould get a random identifier without a key.", success)
}

func Test_GenerateKeyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.ecdsa")

	addr, err := identity.GenerateKeyFile(path)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to generate a key file: %v", failed, err)
	}

	got, err := identity.FromKeyFile(path)
	if err != nil || got != addr {
		t.Fatalf("\t%s\tShould load the generated key back, got %q: %v", failed, got, err)
	}
	t.Logf("\t%s\tShould load the generated key back.", success)
}
