package main

import "github.com/storefront/commerce-api/cmd"

// @title                       Commerce API
// @version                     1.0
// @description                 Storefront backend: accounts, carts, catalog, orders and coupons.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cmd.Execute()
}
