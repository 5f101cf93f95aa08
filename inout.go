package godi

import (
	"github.com/junioryono/godi/v5/internal/reflection"
)

// In embeds godi.In to leverage godi's parameter object functionality.
// When a constructor function accepts a single struct parameter with embedded In,
// godi will automatically populate all exported fields of that struct
// with the corresponding services. Structs embedding dig.In are accepted too.
//
// Supported field tags:
//   - `optional:"true"` - Field is left empty when the service is not registered
//   - `inject:"-"` - Field is skipped
//
// Example:
//
//	type ServiceParams struct {
//	    godi.In
//
//	    Database *sql.DB
//	    Logger   Logger `optional:"true"`
//	}
//
//	func NewService(params ServiceParams) *Service {
//	    return &Service{
//	        db:     params.Database,
//	        logger: params.Logger, // might be nil if not registered
//	    }
//	}
//
// The In struct must be embedded anonymously and the parameter passed by
// value:
//
//	type ServiceParams struct {
//	    godi.In  // ✓ Correct - anonymous embedding
//	    // ...
//	}
//
//	type ServiceParams struct {
//	    In godi.In  // ✗ Wrong - named field
//	    // ...
//	}
//
// A decorator constructor cannot take a parameter object: the decorated
// instance needs a parameter of its own.
type In = reflection.In
