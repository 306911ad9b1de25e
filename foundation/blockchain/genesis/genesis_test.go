package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Load(t *testing.T) {
	type table struct {
		name       string
		content    string
		difficulty uint
		solution   uint64
		reward     string
		fail       bool
	}

	tt := []table{
		{name: "full", content: `{"date":"2023-06-01T00:00:00Z","solution":7,"difficulty":2,"mining_reward":"50"}`, difficulty: 2, solution: 7, reward: "50"},
		{name: "partial", content: `{"difficulty":3}`, difficulty: 3, solution: genesis.DefaultSolution, reward: genesis.DefaultMiningReward},
		{name: "zero difficulty", content: `{"difficulty":0}`, fail: true},
		{name: "too difficult", content: `{"difficulty":65}`, fail: true},
		{name: "bad json", content: `{"difficulty":`, fail: true},
	}

	t.Log("Given the need to load the genesis file.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling a %s file.", testID, tst.name)
			{
				path := filepath.Join(t.TempDir(), "genesis.json")
				if err := os.WriteFile(path, []byte(tst.content), 0600); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to write the file: %v", failed, testID, err)
				}

				g, err := genesis.Load(path)
				if tst.fail {
					if err == nil {
						t.Fatalf("\t%s\tTest %d:\tShould reject the file.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould reject the file.", success, testID)
					continue
				}

				if err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould be able to load the file: %v", failed, testID, err)
				}

				if g.Difficulty != tst.difficulty || g.Solution != tst.solution || g.MiningReward != tst.reward {
					t.Logf("\t\tTest %d:\tgot: %+v", testID, g)
					t.Fatalf("\t%s\tTest %d:\tShould get back the configured values.", failed, testID)
				}
				t.Logf("\t%s\tTest %d:\tShould get back the configured values.", success, testID)
			}
		}
	}
}

func Test_Default(t *testing.T) {
	g, err := genesis.Load("")
	if err != nil {
		t.Fatalf("\t%s\tShould get the default genesis without a file: %v", failed, err)
	}

	if g != genesis.Default() {
		t.Fatalf("\t%s\tShould get the default genesis without a file, got %+v.", failed, g)
	}

	if !g.Predicate()(100, 35293) {
		t.Fatalf("\t%s\tShould use the default difficulty.", failed)
	}
	t.Logf("\t%s\tShould get the default genesis without a file.", success)

	if _, err := genesis.Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("\t%s\tShould fail on a missing file.", failed)
	}
	t.Logf("\t%s\tShould fail on a missing file.", success)
}
