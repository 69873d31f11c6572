package seeders_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/database/seeders"
	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/storage"
	"github.com/shashiranjanraj/catalog/pkg/testkit"
)

func TestRunAllIsRepeatable(t *testing.T) {
	ctx := context.Background()
	db := testkit.SQLite(t, &models.User{}, &models.Product{})
	disk, err := storage.NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	env := seeders.Env{DB: db, Disk: disk}

	var out bytes.Buffer
	require.NoError(t, seeders.RunAll(ctx, env, &out))
	require.NoError(t, seeders.RunAll(ctx, env, nil))
	assert.Contains(t, out.String(), "Running seeder: products")

	n, err := repositories.NewProductRepository(db).Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, seeders.SampleCount, n)

	admin, err := repositories.NewUserRepository(db).FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin.Actor().IsAdmin())
	assert.True(t, auth.CheckPassword(admin.Password, seeders.DemoPassword))

	rc, info, err := disk.Open(ctx, "files/product-specification.pdf")
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.True(t, bytes.HasPrefix(body, []byte("%PDF-1.4")))
	assert.True(t, bytes.HasSuffix(body, []byte("%%EOF\n")))
	assert.Equal(t, "application/pdf", info.ContentType)
}
