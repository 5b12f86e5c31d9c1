// Package schema provides the embedded JSON schema for phony task files.
package schema

import "embed"

// FS contains the embedded schema files.
//
//go:embed *.schema.json
var FS embed.FS

// TaskFile is the name of the task file schema within FS.
const TaskFile = "taskfile.schema.json"

// TaskFileID is the $id of the task file schema.
const TaskFileID = "https://github.com/AndreyAkinshin/phony/schema/taskfile.schema.json"
