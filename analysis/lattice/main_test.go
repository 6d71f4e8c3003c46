package lattice

import (
	"os"
	"testing"

	"github.com/cs-au-dk/mint/utils"
)

func TestMain(m *testing.M) {
	utils.Opts().SetNoColorize(true)
	os.Exit(m.Run())
}
