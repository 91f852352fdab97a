package commands

import (
	"fmt"

	"git.home.luguber.info/inful/mdpress/internal/linkverify"
)

// VerifyCmd implements the 'verify' command.
type VerifyCmd struct {
	Site string `arg:"" help:"Generated site directory to check" type:"existingdir"`
}

func (v *VerifyCmd) Run(_ *Global, _ *CLI) error {
	broken, err := linkverify.VerifySite(v.Site)
	if err != nil {
		return err
	}
	if len(broken) == 0 {
		fmt.Println("All internal links resolve")
		return nil
	}
	for _, b := range broken {
		fmt.Printf("%s: broken link %q\n", b.File, b.URL)
	}
	return fmt.Errorf("%d broken internal link(s)", len(broken))
}
