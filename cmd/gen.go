package cmd

import (
	"context"
	"fmt"

	"github.com/passdesk/passdesk/internal/passgen"
)

// GenOptions carries the gen command's flags.
type GenOptions struct {
	Length      int
	NoLower     bool
	NoUpper     bool
	NoDigits    bool
	NoSymbols   bool
	NoAmbiguous bool
	Copy        bool
}

// Gen generates a password and prints it with a strength estimate, or
// copies it through the auto-clear guard with -copy.
func Gen(ctx context.Context, opts GenOptions) {
	genOpts := passgen.Options{
		Length:           opts.Length,
		Lowercase:        !opts.NoLower,
		Uppercase:        !opts.NoUpper,
		Digits:           !opts.NoDigits,
		Symbols:          !opts.NoSymbols,
		ExcludeAmbiguous: opts.NoAmbiguous,
	}
	if genOpts.Length == 0 {
		genOpts.Length = passgen.DefaultLength
	}

	password, err := passgen.Generate(genOpts)
	if err != nil {
		HandleError(err)
	}

	bits := passgen.StrengthBits(genOpts)
	if opts.Copy {
		env := OpenEnvOrExit()
		defer env.Close()
		fmt.Printf("Generated %d-character password (%.0f bits, %s)\n",
			genOpts.Length, bits, passgen.StrengthLabel(bits))
		copySecretAndWait(ctx, env, password, 0)
		return
	}

	fmt.Println(password)
	fmt.Printf("%.0f bits, %s\n", bits, passgen.StrengthLabel(bits))
}
