// Package docs publica la especificación OpenAPI de la API.
// swagger.json se regenera con `go generate ./...` a partir de las anotaciones de los handlers.
package docs

//go:generate go run github.com/swaggo/swag/cmd/swag@v1.16.6 init -g cmd/api/main.go -d ../ -o . --outputTypes json --parseInternal

import (
	_ "embed"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/swaggo/swag"
)

//go:embed swagger.json
var swaggerJSON string

// SwaggerInfo documento registrado en swag bajo swag.Name.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Title:            "FNC Stock API",
	InfoInstanceName: swag.Name,
	SwaggerTemplate:  swaggerJSON,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Handler sirve la UI en /docs y el documento en /docs/swagger.json.
func Handler() fiber.Handler {
	return swagger.New(swagger.Config{
		BasePath:    "/",
		FilePath:    "./docs/swagger.json",
		FileContent: []byte(SwaggerInfo.ReadDoc()),
		Path:        "docs",
		Title:       SwaggerInfo.Title,
	})
}
