package ginblog

type SortField struct {
	Field     string `json:"field"`
	Direction int    `json:"direction"`
}

type PageRequest struct {
	Page int `json:"page"`
	Size int `json:"size"`
}

type PageResponse[T interface{}] struct {
	Contents         []T         `json:"content"`
	NumberOfElements int         `json:"numberOfElements"`
	Pageable         PageRequest `json:"pageable"`
	TotalPages       int         `json:"totalPages"`
	TotalElements    int         `json:"totalElements"`
}

type Document interface {
	GetTableName() string
}

// Paginate slices items into the requested window. The page is clamped into
// [1, TotalPages], or to 1 when there are no items.
func Paginate[T interface{}](items []T, pageRequest PageRequest) PageResponse[T] {
	size := pageRequest.Size
	if size < 1 {
		size = 1
	}
	total := len(items)
	totalPages := (total + size - 1) / size

	page := pageRequest.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	end := start + size
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	contents := make([]T, end-start)
	copy(contents, items[start:end])

	return PageResponse[T]{
		Contents:         contents,
		NumberOfElements: len(contents),
		Pageable:         PageRequest{Page: page, Size: size},
		TotalPages:       totalPages,
		TotalElements:    total,
	}
}

// EmptyPage is the response served when a listing could not be assembled.
func EmptyPage[T interface{}](size int) PageResponse[T] {
	return PageResponse[T]{
		Contents: []T{},
		Pageable: PageRequest{Page: 1, Size: size},
	}
}
