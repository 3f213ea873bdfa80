package response

import "sync"

// responsePool recycles Response objects across requests. Callers that
// obtain a Response from the constructors in this package hand it back
// with Release once it has been serialized.
var responsePool = sync.Pool{
	New: func() interface{} {
		return &Response{}
	},
}

// Acquire returns a zeroed Response from the pool.
func Acquire() *Response {
	return responsePool.Get().(*Response)
}

// Release resets the Response and returns it to the pool. It is safe to
// call with nil.
func Release(r *Response) {
	if r == nil {
		return
	}
	r.Code = 0
	r.HTTPCode = 0
	r.Message = ""
	r.Data = nil
	r.RequestID = ""
	r.Timestamp = 0
	responsePool.Put(r)
}
