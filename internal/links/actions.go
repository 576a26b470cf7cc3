package links

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/scholarship-tracker/internal/common"
	"github.com/dtnitsch/scholarship-tracker/internal/dashboard"
	"github.com/dtnitsch/scholarship-tracker/pkg/render"
	"github.com/dtnitsch/scholarship-tracker/pkg/storage"
)

func ListAction(c *cli.Context) error {
	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	links, err := s.Links(c.Context)
	if err != nil {
		return err
	}
	keep := filterFromFlags(c)

	switch c.String("format") {
	case "yaml":
		out, err := yaml.Marshal(filterLinks(links, keep))
		if err != nil {
			return fmt.Errorf("failed to encode links: %w", err)
		}
		fmt.Print(string(out))
	case "", "table":
		fmt.Fprint(s.Out, render.LinksWhere(links, keep, s.Colorize))
	default:
		return fmt.Errorf("unknown format %q (use table or yaml)", c.String("format"))
	}
	return nil
}

func AddAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one URL required")
	}

	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	failed, err := s.AddLinks(c.Context, c.Args().Slice())
	if err != nil {
		return err
	}
	if len(failed) > 0 {
		return fmt.Errorf("%w: %v", dashboard.ErrInvalidURL, failed)
	}
	return nil
}

func RemoveAction(c *cli.Context) error {
	i, err := common.IndexArg(c)
	if err != nil {
		return err
	}

	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.RemoveLink(c.Context, i)
}

func ToggleSavedAction(c *cli.Context) error {
	i, err := common.IndexArg(c)
	if err != nil {
		return err
	}

	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.ToggleSaved(c.Context, i)
}

func ExportAction(c *cli.Context) error {
	out := c.String("out")
	format, err := storage.FormatFor(out, c.String("format"))
	if err != nil {
		return err
	}

	s, err := dashboard.Open(c)
	if err != nil {
		return err
	}
	defer s.Close()

	links, err := s.Links(c.Context)
	if err != nil {
		return err
	}

	if out == "" || out == "-" {
		data, err := storage.EncodeLinks(links, format, nowFunc())
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(data)
		return err
	}

	st := &storage.Storage{}
	if err := st.ExportLinks(out, links, format); err != nil {
		return err
	}
	fmt.Printf("Exported %d links to %s\n", len(links), out)
	return nil
}
