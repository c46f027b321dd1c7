package version

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"ocm.software/open-component-model/bindings/go/domainmodel/internal/flags/enum"
)

const (
	FlagFormat                = "format"
	FlagFormatShortHand       = "f"
	FlagFormatText            = "text"
	FlagFormatJSON            = "json"
	FlagFormatGoBuildInfo     = "gobuildinfo"
	FlagFormatGoBuildInfoJSON = "gobuildinfojson"
)

// BuildVersion overrides the module version from the Go build info when set at build time:
//
//	-ldflags "-X ocm.software/open-component-model/bindings/go/domainmodel/cmd/version.BuildVersion=0.1.0"
var BuildVersion = "n/a"

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build version of domaingen",
		Long: fmt.Sprintf(`Print the build version of domaingen.

%[1]q prints the version only. %[2]q prints the version split into its semantic
version parts, with build date and commit derived from pseudo versions.
%[3]q and %[4]q print the complete Go build information.`,
			FlagFormatText, FlagFormatJSON, FlagFormatGoBuildInfo, FlagFormatGoBuildInfoJSON),
		Example:           fmt.Sprintf(`domaingen version --%s %s`, FlagFormat, FlagFormatJSON),
		Args:              cobra.NoArgs,
		RunE:              PrintVersion,
		DisableAutoGenTag: true,
	}
	enum.VarP(cmd.Flags(), FlagFormat, FlagFormatShortHand, []string{
		FlagFormatText,
		FlagFormatJSON,
		FlagFormatGoBuildInfo,
		FlagFormatGoBuildInfoJSON,
	}, "format of the version output")
	return cmd
}

func PrintVersion(cmd *cobra.Command, _ []string) error {
	format, err := enum.Get(cmd.Flags(), FlagFormat)
	if err != nil {
		return err
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return errors.New("no build info available")
	}
	if BuildVersion != "n/a" {
		bi.Main.Version = BuildVersion
	}

	out := cmd.OutOrStdout()
	switch format {
	case FlagFormatText:
		_, err = fmt.Fprintf(out, "domaingen %s\n", bi.Main.Version)
		return err
	case FlagFormatJSON:
		return json.NewEncoder(out).Encode(GetVersionInfo(bi))
	case FlagFormatGoBuildInfo:
		_, err = fmt.Fprint(out, bi.String())
		return err
	case FlagFormatGoBuildInfoJSON:
		return json.NewEncoder(out).Encode(bi)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
