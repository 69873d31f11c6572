package api

import (
	gql "github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/collection"
	"github.com/shashiranjanraj/catalog/pkg/graphql"
)

const maxGraphQLPerPage = 100

var productType = gql.NewObject(gql.ObjectConfig{
	Name: "Product",
	Fields: gql.Fields{
		"id":       &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"name":     &gql.Field{Type: gql.NewNonNull(gql.String)},
		"price":    &gql.Field{Type: gql.NewNonNull(gql.String)},
		"priceEur": &gql.Field{Type: gql.NewNonNull(gql.String)},
	},
})

var productPageType = gql.NewObject(gql.ObjectConfig{
	Name: "ProductPage",
	Fields: gql.Fields{
		"items":    &gql.Field{Type: gql.NewNonNull(gql.NewList(gql.NewNonNull(productType)))},
		"total":    &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"page":     &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"perPage":  &gql.Field{Type: gql.NewNonNull(gql.Int)},
		"lastPage": &gql.Field{Type: gql.NewNonNull(gql.Int)},
	},
})

// ProductSchema exposes the listing as
//
//	{ products(page: 1, perPage: 10) { items { id name price priceEur } total } }
//
// Money is rendered as fixed two-decimal strings.
func ProductSchema(listing *services.ProductListingService) (gql.Schema, error) {
	query := gql.NewObject(gql.ObjectConfig{
		Name: "Query",
		Fields: gql.Fields{
			"products": &gql.Field{
				Type: gql.NewNonNull(productPageType),
				Args: gql.FieldConfigArgument{
					"page":    &gql.ArgumentConfig{Type: gql.Int, DefaultValue: 1},
					"perPage": &gql.ArgumentConfig{Type: gql.Int, DefaultValue: 10},
				},
				Resolve: func(p gql.ResolveParams) (any, error) {
					pageArg, _ := p.Args["page"].(int)
					perPage, _ := p.Args["perPage"].(int)
					if perPage > maxGraphQLPerPage {
						perPage = maxGraphQLPerPage
					}
					page, err := listing.ListPage(p.Context, pageArg, perPage)
					if err != nil {
						return nil, err
					}
					return map[string]any{
						"items": collection.Map(page.Items, func(v services.ProductView) map[string]any {
							return map[string]any{
								"id":       int(v.ID),
								"name":     v.Name,
								"price":    v.Price.StringFixed(2),
								"priceEur": v.PriceEUR.StringFixed(2),
							}
						}),
						"total":    int(page.Total),
						"page":     page.Page,
						"perPage":  page.PerPage,
						"lastPage": page.LastPage,
					}, nil
				},
			},
		},
	})
	return graphql.NewSchema(query)
}
