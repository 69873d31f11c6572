package seeders

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/rbac"
)

const (
	DemoPassword  = "password"
	SampleCount   = 15
	specification = "files/product-specification.pdf"
)

func init() {
	Register("users", SeedUsers)
	Register("products", SeedProducts)
	Register("specification", SeedSpecification)
}

// SeedUsers creates admin@example.com and user@example.com, both with
// DemoPassword.
func SeedUsers(ctx context.Context, env Env) error {
	users := repositories.NewUserRepository(env.DB)
	for _, u := range []models.User{
		{Name: "Admin", Email: "admin@example.com", Role: rbac.RoleAdmin},
		{Name: "User", Email: "user@example.com", Role: rbac.RoleUser},
	} {
		_, err := users.FindByEmail(ctx, u.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrNotFound) {
			return err
		}
		hash, err := auth.HashPassword(DemoPassword)
		if err != nil {
			return err
		}
		u.Password = hash
		if err := users.Create(ctx, &u); err != nil {
			return err
		}
	}
	return nil
}

// SeedProducts adds "Product 1" … "Product 15" to an empty catalog.
func SeedProducts(ctx context.Context, env Env) error {
	products := repositories.NewProductRepository(env.DB)
	n, err := products.Count(ctx)
	if err != nil || n > 0 {
		return err
	}
	for i := 1; i <= SampleCount; i++ {
		f := models.ProductFields{
			Name:  fmt.Sprintf("Product %d", i),
			Price: decimal.NewFromInt(int64(i * 25)).Add(decimal.RequireFromString("0.99")),
		}
		if _, err := products.Create(ctx, f); err != nil {
			return err
		}
	}
	return nil
}

// SeedSpecification writes a one-page placeholder PDF when the disk has no
// specification yet.
func SeedSpecification(ctx context.Context, env Env) error {
	if env.Disk == nil {
		return nil
	}
	ok, err := env.Disk.Exists(ctx, specification)
	if err != nil || ok {
		return err
	}
	return env.Disk.Put(ctx, specification, bytes.NewReader(placeholderPDF()))
}

func placeholderPDF() []byte {
	const stream = "BT /F1 18 Tf 72 720 Td (Product specification) Tj ET"
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var b bytes.Buffer
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, o := range objects {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, o)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return b.Bytes()
}
