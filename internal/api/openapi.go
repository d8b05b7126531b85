package api

import (
	"github.com/JaimeStill/remit/internal/config"
	"github.com/JaimeStill/remit/pkg/openapi"
)

// NewSpec describes every API endpoint. Paths are relative to the base
// path, which is published as the server URL.
func NewSpec(cfg *config.Config) *openapi.Spec {
	spec := openapi.NewSpec(&cfg.API.OpenAPI, cfg.Version)
	spec.AddServer(cfg.API.BasePath)
	spec.Components.AddSchemas(schemas)

	id := openapi.PathParam("id", "Resource ID")
	stage := &openapi.Parameter{
		Name:     "stage",
		In:       "path",
		Required: true,
		Schema:   &openapi.Schema{Type: "string", Enum: []any{"extract", "transcribe"}},
	}
	listParams := []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("search", "string", "Search text", false),
		openapi.QueryParam("sort", "string", "Sort fields", false),
	}

	ops := []struct {
		path, method string
		op           *openapi.Operation
	}{
		{"/submissions", "GET", &openapi.Operation{
			Summary: "List submissions",
			Tags:    []string{"Submissions"},
			Parameters: append(listParams,
				openapi.QueryParam("status", "string", "approved or rejected", false),
				openapi.QueryParam("vendor_name", "string", "Vendor contains", false),
				openapi.QueryParam("invoice_number", "string", "Invoice number contains", false),
				openapi.QueryParam("min_total", "string", "Minimum total", false),
				openapi.QueryParam("max_total", "string", "Maximum total", false),
			),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Submission page", "SubmissionPage"),
			},
		}},
		{"/submissions", "POST", &openapi.Operation{
			Summary:     "Process an invoice PDF",
			Description: "Runs extraction, validation and approval. Rejected invoices are still created.",
			Tags:        []string{"Submissions"},
			RequestBody: openapi.RequestBodyMultipart("file", "PDF invoice"),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Processed submission", "Submission"),
				400: openapi.ResponseRef("BadRequest"),
				413: openapi.ResponseRef("PayloadTooLarge"),
			},
		}},
		{"/submissions/search", "POST", &openapi.Operation{
			Summary:     "Search submissions",
			Tags:        []string{"Submissions"},
			RequestBody: openapi.RequestBodyJSON("SubmissionSearch", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Submission page", "SubmissionPage"),
				400: openapi.ResponseRef("BadRequest"),
			},
		}},
		{"/submissions/{id}", "GET", &openapi.Operation{
			Summary:    "Find a submission",
			Tags:       []string{"Submissions"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Submission", "Submission"),
				404: openapi.ResponseRef("NotFound"),
			},
		}},
		{"/submissions/{id}", "DELETE", &openapi.Operation{
			Summary:    "Delete a submission and its PDF",
			Tags:       []string{"Submissions"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		}},
		{"/submissions/{id}/document", "GET", &openapi.Operation{
			Summary:    "Download the submitted PDF",
			Tags:       []string{"Submissions"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseBinary("PDF document", "application/pdf"),
				404: openapi.ResponseRef("NotFound"),
			},
		}},
		{"/prompts", "GET", &openapi.Operation{
			Summary:    "List prompt overrides",
			Tags:       []string{"Prompts"},
			Parameters: listParams,
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prompt page", "PromptPage"),
			},
		}},
		{"/prompts", "POST", &openapi.Operation{
			Summary:     "Create a prompt override",
			Tags:        []string{"Prompts"},
			RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
			Responses: map[int]*openapi.Response{
				201: openapi.ResponseJSON("Prompt", "Prompt"),
				400: openapi.ResponseRef("BadRequest"),
				409: openapi.ResponseRef("Conflict"),
			},
		}},
		{"/prompts/stages", "GET", &openapi.Operation{
			Summary: "List workflow stages",
			Tags:    []string{"Prompts"},
			Responses: map[int]*openapi.Response{
				200: {Description: "Stage names", Content: map[string]*openapi.MediaType{
					"application/json": {Schema: &openapi.Schema{Type: "array", Items: &openapi.Schema{Type: "string"}}},
				}},
			},
		}},
		{"/prompts/stages/{stage}/instructions", "GET", &openapi.Operation{
			Summary:    "Effective instructions for a stage",
			Tags:       []string{"Prompts"},
			Parameters: []*openapi.Parameter{stage},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Stage content", "StageContent"),
				400: openapi.ResponseRef("BadRequest"),
			},
		}},
		{"/prompts/stages/{stage}/spec", "GET", &openapi.Operation{
			Summary:    "Output specification for a stage",
			Tags:       []string{"Prompts"},
			Parameters: []*openapi.Parameter{stage},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Stage content", "StageContent"),
				400: openapi.ResponseRef("BadRequest"),
			},
		}},
		{"/prompts/{id}", "GET", &openapi.Operation{
			Summary:    "Find a prompt override",
			Tags:       []string{"Prompts"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		}},
		{"/prompts/{id}", "PUT", &openapi.Operation{
			Summary:     "Update a prompt override",
			Tags:        []string{"Prompts"},
			Parameters:  []*openapi.Parameter{id},
			RequestBody: openapi.RequestBodyJSON("PromptCommand", true),
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		}},
		{"/prompts/{id}", "DELETE", &openapi.Operation{
			Summary:    "Delete a prompt override",
			Tags:       []string{"Prompts"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				204: {Description: "Deleted"},
				404: openapi.ResponseRef("NotFound"),
			},
		}},
		{"/prompts/{id}/activate", "POST", &openapi.Operation{
			Summary:    "Make this override the active one for its stage",
			Tags:       []string{"Prompts"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		}},
		{"/prompts/{id}/deactivate", "POST", &openapi.Operation{
			Summary:    "Fall back to the built-in instructions",
			Tags:       []string{"Prompts"},
			Parameters: []*openapi.Parameter{id},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Prompt", "Prompt"),
				404: openapi.ResponseRef("NotFound"),
			},
		}},
		{"/storage", "GET", &openapi.Operation{
			Summary: "List stored blobs",
			Tags:    []string{"Storage"},
			Parameters: []*openapi.Parameter{
				openapi.QueryParam("prefix", "string", "Key prefix", false),
				openapi.QueryParam("marker", "string", "Continuation marker", false),
				openapi.QueryParam("max_results", "integer", "Page size", false),
			},
			Responses: map[int]*openapi.Response{
				200: openapi.ResponseJSON("Blob listing", "BlobListing"),
				400: openapi.ResponseRef("BadRequest"),
			},
		}},
	}

	for _, o := range ops {
		spec.AddOperation(o.path, o.method, o.op)
	}
	return spec
}

var (
	str     = &openapi.Schema{Type: "string"}
	strNull = &openapi.Schema{Type: "string", Description: "Absent when not found on the invoice"}
	boolean = &openapi.Schema{Type: "boolean"}
	integer = &openapi.Schema{Type: "integer"}
	money   = &openapi.Schema{Type: "string", Format: "decimal"}
	strList = &openapi.Schema{Type: "array", Items: str}
)

var schemas = map[string]*openapi.Schema{
	"LineItem": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"description": str,
			"quantity":    money,
			"unit_price":  money,
			"total":       money,
		},
	},
	"Invoice": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"invoice_number":   strNull,
			"vendor_name":      strNull,
			"vendor_address":   strNull,
			"customer_name":    strNull,
			"customer_address": strNull,
			"invoice_date":     {Type: "string", Format: "date"},
			"due_date":         {Type: "string", Format: "date"},
			"line_items":       openapi.ArrayOf("LineItem"),
			"subtotal":         money,
			"tax_rate":         {Type: "string", Format: "decimal", Description: "Fraction: 0.10 is 10%"},
			"tax_amount":       money,
			"total":            money,
			"currency":         {Type: "string", Example: "USD"},
		},
	},
	"Submission": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":                   {Type: "string", Format: "uuid"},
			"filename":             str,
			"storage_key":          str,
			"size_bytes":           integer,
			"page_count":           integer,
			"status":               {Type: "string", Enum: []any{"approved", "rejected"}},
			"invoice_number":       strNull,
			"vendor_name":          strNull,
			"invoice_date":         strNull,
			"currency":             strNull,
			"total":                money,
			"invoice":              openapi.SchemaRef("Invoice"),
			"errors":               strList,
			"calculations_valid":   boolean,
			"rules_valid":          boolean,
			"notification_sent":    boolean,
			"notification_error":   strNull,
			"notification_skipped": boolean,
			"created_at":           {Type: "string", Format: "date-time"},
			"updated_at":           {Type: "string", Format: "date-time"},
		},
	},
	"SubmissionPage":   page("Submission"),
	"SubmissionSearch": {Type: "object", Description: "PageRequest fields plus the submission list filters"},
	"Prompt": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"id":           {Type: "string", Format: "uuid"},
			"name":         str,
			"stage":        {Type: "string", Enum: []any{"extract", "transcribe"}},
			"instructions": str,
			"description":  strNull,
			"active":       boolean,
		},
	},
	"PromptCommand": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"name":         str,
			"stage":        {Type: "string", Enum: []any{"extract", "transcribe"}},
			"instructions": str,
			"description":  strNull,
		},
		Required: []string{"name", "stage", "instructions"},
	},
	"PromptPage": page("Prompt"),
	"StageContent": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"stage":   str,
			"content": str,
		},
	},
	"BlobListing": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"items":       {Type: "array", Items: &openapi.Schema{Type: "object"}},
			"next_marker": str,
		},
	},
}

func page(item string) *openapi.Schema {
	return &openapi.Schema{
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"data":        openapi.ArrayOf(item),
			"total":       integer,
			"page":        integer,
			"page_size":   integer,
			"total_pages": integer,
			"has_next":    boolean,
		},
	}
}
