package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"crmhub/internal/apperrors"
	"crmhub/internal/listing"
	"crmhub/internal/logging"
	"crmhub/internal/middleware"
	"crmhub/internal/services"
)

// respondError пишет {"error","description"}; причина 500-х идёт только в лог.
func respondError(c *gin.Context, err error) {
	status, body := apperrors.Response(err)
	if status >= http.StatusInternalServerError {
		logging.Logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func badRequest(c *gin.Context, err error) {
	respondError(c, apperrors.Validation("Invalid request").WithDescription("%v", err))
}

// actorOf returns the authenticated actor or writes 401.
func actorOf(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		respondError(c, apperrors.Unauthorized("Not signed in"))
	}
	return actor, ok
}

func queryInt(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

// queryList accepts both ?k=a,b and ?k=a&k=b.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// listQuery reads q, fields, sort, dir, page and size, plus equality filters for the given params.
// equals maps query parameter names to field keys.
func listQuery(c *gin.Context, equals map[string]string) listing.Query {
	q := listing.Query{
		Term:   c.Query("q"),
		Fields: queryList(c, "fields"),
		Sort:   listing.ParseSort(c.Query("sort"), c.Query("dir")),
		Page:   queryInt(c, "page", 1),
		Size:   queryInt(c, "size", listing.DefaultPageSize),
	}
	for param, field := range equals {
		if v := strings.TrimSpace(c.Query(param)); v != "" {
			if q.Equals == nil {
				q.Equals = map[string]string{}
			}
			q.Equals[field] = v
		}
	}
	return q
}

// dealFilter reads the advanced filter; nil when no criterion is present.
func dealFilter(c *gin.Context) *listing.AdvancedFilter {
	f := listing.NewAdvancedFilter()
	f.Stages = queryList(c, "stages")
	f.Regions = queryList(c, "regions")
	f.LeadOwners = queryList(c, "lead_owners")
	f.Priorities = queryList(c, "priorities")
	f.SearchTerm = c.Query("filter_q")
	_, hasMin := c.GetQuery("prob_min")
	_, hasMax := c.GetQuery("prob_max")
	if hasMin || hasMax {
		f = f.WithProbability(queryInt(c, "prob_min", 0), queryInt(c, "prob_max", 100))
	}
	if len(f.Active()) == 0 {
		return nil
	}
	return &f
}

// selectedIDs returns nil when the ids parameter is absent and a non-nil slice when present.
func selectedIDs(c *gin.Context) []string {
	if _, ok := c.GetQuery("ids"); !ok {
		return nil
	}
	ids := queryList(c, "ids")
	if ids == nil {
		ids = []string{}
	}
	return ids
}

type idsRequest struct {
	IDs []string `json:"ids"`
}
