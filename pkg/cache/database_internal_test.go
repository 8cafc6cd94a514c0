package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresqlDSN(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name string
		cfg  Config
		want string
	}{
		{
			name: "no schema",
			cfg:  Config{URL: "postgres://u:p@localhost:5432/near?sslmode=disable"},
			want: "postgres://u:p@localhost:5432/near?sslmode=disable",
		},
		{
			name: "url with schema",
			cfg:  Config{URL: "postgres://u:p@localhost:5432/near?sslmode=disable", Schema: "cache"},
			want: "postgres://u:p@localhost:5432/near?search_path=cache&sslmode=disable",
		},
		{
			name: "key value with schema",
			cfg:  Config{URL: "host=localhost dbname=near", Schema: "cache"},
			want: "host=localhost dbname=near search_path=cache",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := postgresqlDSN(tc.cfg)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
