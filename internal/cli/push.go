package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/importviz/pkg/errors"
	"github.com/matzehuels/importviz/pkg/fetch"
	"github.com/matzehuels/importviz/pkg/module"
)

// pushCommand creates the push command, which stores a dataset file in
// MongoDB so it can be rendered as mongo://<id>.
func (c *CLI) pushCommand() *cobra.Command {
	var uri, id string

	cmd := &cobra.Command{
		Use:   "push [file]",
		Short: "Store a dataset file in MongoDB",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPush(cmd.Context(), args[0], id, uri)
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "document id (default: file name without extension)")
	cmd.Flags().StringVar(&uri, "mongo-uri", "", "MongoDB connection URI (default from config)")

	return cmd
}

func (c *CLI) runPush(ctx context.Context, file, id, uri string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if uri != "" {
		cfg.Mongo.URI = uri
	}
	if cfg.Mongo.URI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "no MongoDB URI: set --mongo-uri or [mongo] uri")
	}
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	}
	id = fetch.MongoID(id)

	data, err := os.ReadFile(file)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", file)
	}
	ds, err := module.Parse(data)
	if err != nil {
		return err
	}

	src, err := fetch.ConnectMongo(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
	if err != nil {
		return err
	}
	defer src.Close(context.Background())

	if err := src.Store(ctx, id, data); err != nil {
		return err
	}
	printSuccess("Stored %d modules as %s", ds.Len(), StyleHighlight.Render(fetch.MongoScheme+id))
	printNextStep("Render it", appName+" render "+fetch.MongoScheme+id)
	return nil
}
