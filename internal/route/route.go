// Package route names the views of the inventory client. Components return a
// Route instead of navigating themselves; the front end decides how to show it.
package route

type Route string

const (
	None       Route = ""
	Home       Route = "/"
	Login      Route = "/login"
	Register   Route = "/register"
	Products   Route = "/products"
	NewProduct Route = "/products/new"
)

func EditProduct(id string) Route {
	return Route("/products/edit/" + id)
}
