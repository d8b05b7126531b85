package openapi

import "maps"

func errorResponse(description string) *Response {
	return &Response{
		Description: description,
		Content: map[string]*MediaType{
			"application/json": {Schema: SchemaRef("Error")},
		},
	}
}

// NewComponents returns the schemas and responses shared by every domain:
// the error body, list request parameters and the common failure responses.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:       "object",
				Properties: map[string]*Schema{"error": {Type: "string"}},
				Required:   []string{"error"},
			},
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number, starting at 1", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 20},
					"search":    {Type: "string", Description: "Case-insensitive search text"},
					"sort":      {Type: "string", Description: "Comma-separated fields; prefix - for descending", Example: "-created_at"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":           errorResponse("Invalid request"),
			"NotFound":             errorResponse("Resource not found"),
			"Conflict":             errorResponse("Resource conflict"),
			"PayloadTooLarge":      errorResponse("Upload exceeds the configured size limit"),
			"UnsupportedMediaType": errorResponse("Upload is not a PDF document"),
			"BadGateway":           errorResponse("Upstream model or mail provider failed"),
		},
	}
}

// AddSchemas merges schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}
