package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/dotcommander/dreamboard/internal/app"
	"github.com/dotcommander/dreamboard/internal/credential"
	"github.com/dotcommander/dreamboard/internal/output"
	"github.com/dotcommander/dreamboard/internal/store"
)

// staleCredentialAge flags a primary-store session nobody has rewritten in a month.
const staleCredentialAge = 30 * 24 * time.Hour

func NewDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, credential stores and database connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmdContext(cmd)
			dbPath, dbSource, err := app.ResolveDBPathDetailed()
			if err != nil {
				return cmdErr(err)
			}

			var (
				dbOK          bool
				dbErr         string
				schemaVersion int64
				diags         []store.Diagnostic
			)
			db, err := store.InitDBWithPath(dbPath)
			if err != nil {
				dbErr = err.Error()
			} else {
				defer db.Close()
				dbOK = true
				if v, err := store.SchemaVersion(db); err == nil {
					schemaVersion = v
				} else {
					dbErr = err.Error()
				}
				if d, err := store.RunDiagnostics(ctx, db, credential.StorageKey, staleCredentialAge); err == nil {
					diags = d
				} else {
					dbErr = err.Error()
				}
			}

			secondaryKind := ""
			if _, kind, closeSec, err := openSecondary(ctx); err == nil {
				secondaryKind = kind
				closeSec()
			}

			resolver, closers := newResolver(ctx)
			cred, authenticated := resolver.Resolve(ctx)
			for _, c := range closers {
				c()
			}

			type resp struct {
				APIBaseURL       string              `json:"api_base_url"`
				Request          app.RequestSettings `json:"request"`
				DBPath           string              `json:"db_path"`
				DBSource         string              `json:"db_source"`
				DBOK             bool                `json:"db_ok"`
				DBErr            string              `json:"db_error,omitempty"`
				SchemaVersion    int64               `json:"schema_version,omitempty"`
				Diagnostics      []store.Diagnostic  `json:"diagnostics,omitempty"`
				SecondaryStore   string              `json:"secondary_store,omitempty"`
				Authenticated    bool                `json:"authenticated"`
				CredentialSource string              `json:"credential_source,omitempty"`
				Hint             string              `json:"hint,omitempty"`
			}
			hint := ""
			switch {
			case !dbOK:
				hint = "Set credential_db_path to a writable location or use --db-path."
			case !authenticated:
				hint = "No credential found. Run 'dreamboard auth store <token>' or pass --token."
			}
			return output.PrintSuccess(resp{
				APIBaseURL:       app.APIBaseURL(),
				Request:          app.EffectiveRequestSettings(),
				DBPath:           dbPath,
				DBSource:         dbSource,
				DBOK:             dbOK,
				DBErr:            dbErr,
				SchemaVersion:    schemaVersion,
				Diagnostics:      diags,
				SecondaryStore:   secondaryKind,
				Authenticated:    authenticated,
				CredentialSource: cred.Source,
				Hint:             hint,
			})
		},
	}
}
