// Package docs holds the generated swagger registration for the HTTP API.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/vote": {
            "post": {
                "description": "Casts the caller's daily free vote for a candidate.",
                "produces": ["application/json"],
                "tags": ["voting"],
                "summary": "Cast free vote",
                "responses": {
                    "200": {"description": "updated tally"},
                    "404": {"description": "candidate not found"},
                    "409": {"description": "already voted today"}
                }
            }
        },
        "/candidates/{candidate_id}/gifts": {
            "post": {
                "description": "Creates a gateway charge for a gift purchase and stages the pending vote.",
                "produces": ["application/json"],
                "tags": ["gifts"],
                "summary": "Purchase gift",
                "responses": {
                    "200": {"description": "client payment token"},
                    "404": {"description": "gift or candidate not found"},
                    "502": {"description": "payment gateway unavailable"}
                }
            }
        },
        "/gateway/notify": {
            "post": {
                "description": "Payment provider webhook; responds with the provider XML ack.",
                "produces": ["application/xml"],
                "tags": ["gifts"],
                "summary": "Gateway notification",
                "responses": {
                    "200": {"description": "provider ack body"}
                }
            }
        },
        "/candidates/{candidate_id}/rank": {
            "get": {
                "description": "Top contributors for a candidate by summed vote weight.",
                "produces": ["application/json"],
                "tags": ["voting"],
                "summary": "Contributor rank",
                "responses": {
                    "200": {"description": "ranked contributors"}
                }
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "votegala API",
	Description:      "Contest voting and gift purchase API.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
