package nodes

import (
	domaincatalog "github.com/pipeforge/pipeforge/internal/domain/catalog"
	infracatalog "github.com/pipeforge/pipeforge/internal/infrastructure/catalog"
)

// RegisterEntries wires this package's row types into r under config-facing
// "backend:row" names, the entry-side counterpart of Register. A config
// document's catalog section names an entry by one of these type strings
// (e.g. "csv:raw_review") plus "path"/"read_only" args; the factories here
// close over the concrete row type so infracatalog.Registry.New never needs
// generics of its own.
func RegisterEntries(r *infracatalog.Registry) error {
	registrations := []struct {
		name    string
		factory infracatalog.EntryFactory
	}{
		{"csv:raw_review", csvFactory[RawReviewRow]()},
		{"csv:rating", csvFactory[RatingRow]()},
		{"csv:company", csvFactory[CompanyRow]()},
		{"csv:enriched", csvFactory[EnrichedRow]()},
		{"json:raw_review", jsonFactory[RawReviewRow]()},
		{"json:enriched", jsonFactory[EnrichedRow]()},
		{"parquet:enriched", parquetFactory[EnrichedRow]()},
		{"memory:rating", memoryFactory[RatingRow]()},
		{"memory:enriched", memoryFactory[EnrichedRow]()},
		{"null:enriched", nullFactory[EnrichedRow]()},
	}
	for _, reg := range registrations {
		if err := r.Register(reg.name, reg.factory); err != nil {
			return err
		}
	}
	return nil
}

func csvFactory[T any]() infracatalog.EntryFactory {
	return func(key string, args map[string]interface{}) (domaincatalog.Entry, error) {
		path, err := infracatalog.StringArg(args, "path")
		if err != nil {
			return nil, err
		}
		if infracatalog.BoolArg(args, "read_only", false) {
			return infracatalog.NewReadOnlyCSV[T](key, path), nil
		}
		return infracatalog.NewCSV[T](key, path), nil
	}
}

func jsonFactory[T any]() infracatalog.EntryFactory {
	return func(key string, args map[string]interface{}) (domaincatalog.Entry, error) {
		path, err := infracatalog.StringArg(args, "path")
		if err != nil {
			return nil, err
		}
		if infracatalog.BoolArg(args, "read_only", false) {
			return infracatalog.NewReadOnlyJSON[T](key, path), nil
		}
		return infracatalog.NewJSON[T](key, path), nil
	}
}

func parquetFactory[T any]() infracatalog.EntryFactory {
	return func(key string, args map[string]interface{}) (domaincatalog.Entry, error) {
		path, err := infracatalog.StringArg(args, "path")
		if err != nil {
			return nil, err
		}
		if infracatalog.BoolArg(args, "read_only", false) {
			return infracatalog.NewReadOnlyParquet[T](key, path), nil
		}
		return infracatalog.NewParquet[T](key, path), nil
	}
}

func memoryFactory[T any]() infracatalog.EntryFactory {
	return func(key string, _ map[string]interface{}) (domaincatalog.Entry, error) {
		return infracatalog.NewMemory[T](key), nil
	}
}

func nullFactory[T any]() infracatalog.EntryFactory {
	return func(key string, _ map[string]interface{}) (domaincatalog.Entry, error) {
		return infracatalog.NewNull[T](key), nil
	}
}
