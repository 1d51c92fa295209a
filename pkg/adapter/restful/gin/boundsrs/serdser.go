package boundsrs

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/gtfs-bounds/pkg/adapter/restful/gin/serdser"
)

type rawBoundsReq struct {
	BufferDegrees *float64 `form:"buffer-degrees" binding:"omitempty,gte=-90,lte=90"`
	Record        bool     `form:"record"`
}

type boundsReq struct {
	BufferDegrees float64
	Record        bool
	Feeds         []*multipart.FileHeader
}

// multipartMemory is the part of an uploaded body which may be kept in
// memory, larger bodies are stored in temporary files.
const multipartMemory = 32 << 20

func (rs *resource) DserBoundsReq(c *gin.Context) *boundsReq {
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"detail": err.Error(),
			})
			return nil
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
		return nil
	}
	req := &rawBoundsReq{}
	if ok := serdser.Bind(c, req, binding.FormMultipart); !ok {
		return nil
	}
	var errs map[string][]string
	val := &boundsReq{Record: req.Record}
	if req.BufferDegrees != nil {
		val.BufferDegrees = *req.BufferDegrees
	}
	val.Feeds = c.Request.MultipartForm.File["feed"]
	serdser.Assert(&errs, len(val.Feeds) > 0, "feed", "At least one feed file is required.")
	serdser.Assert(&errs, !req.Record || rs.bounds.Recording(), "record", "History storage is not configured.")
	if errs != nil {
		c.JSON(http.StatusBadRequest, errs)
		return nil
	}
	return val
}

type rawHistoryReq struct {
	Limit *int `form:"limit" binding:"omitempty,gt=0,lte=1000"`
}

// DserHistoryReq returns the requested number of reports, or zero if
// the request was invalid and its error response is already written.
func (rs *resource) DserHistoryReq(c *gin.Context) int {
	req := &rawHistoryReq{}
	if ok := serdser.Bind(c, req, binding.Query); !ok {
		return 0
	}
	if req.Limit == nil {
		return DefaultHistoryLimit
	}
	return *req.Limit
}
