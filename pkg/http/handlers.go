package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	z "github.com/Oudwins/zog"
	"github.com/Oudwins/zog/zhttp"

	"github.com/mzrn1122/SMD/pkg/dispenser"
)

func (rs *RestfulServer) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (rs *RestfulServer) ListDevices(c *gin.Context) {
	devices, err := rs.Dispenser.Fleet.ListDevices()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

func (rs *RestfulServer) GetDevice(c *gin.Context) {
	device, err := rs.Dispenser.Fleet.GetDevice(c.Param("device_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, device)
}

func (rs *RestfulServer) GetIntake(c *gin.Context) {
	events, err := rs.Dispenser.Intake.ListIntake(c.Param("device_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (rs *RestfulServer) GetInventory(c *gin.Context) {
	state, err := rs.Dispenser.Intake.GetInventory(c.Param("device_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GetAdherence buckets days in the zone named by ?tz=, UTC by default.
func (rs *RestfulServer) GetAdherence(c *gin.Context) {
	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		var err error
		if loc, err = time.LoadLocation(tz); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown time zone " + strconv.Quote(tz)})
			return
		}
	}

	report, err := rs.Dispenser.Intake.GetAdherence(c.Param("device_id"), loc)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (rs *RestfulServer) GetCommands(c *gin.Context) {
	records, err := rs.Dispenser.Commands.ListCommands(c.Param("device_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

type CommandRequest struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params"`
}

// PostCommand decodes with gin since params is free-form; the dispatcher owns
// the validation.
func (rs *RestfulServer) PostCommand(c *gin.Context) {
	var req CommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd, err := rs.Dispenser.Commands.SendCommand(c.Request.Context(), c.Param("device_id"), req.Name, req.Params)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, cmd)
}

type ScheduleRequest struct {
	Slots []int  `json:"slots"`
	Time  string `json:"time"`
}

var scheduleRequestSchema = z.Struct(z.Shape{
	"Slots": z.Slice(z.Int()).Required(),
	"Time":  z.String().Required(),
})

func (rs *RestfulServer) PostSchedule(c *gin.Context) {
	var req ScheduleRequest
	if errs := scheduleRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs})
		return
	}

	update, err := rs.Dispenser.Commands.UpdateSchedule(c.Request.Context(), c.Param("device_id"), req.Slots, req.Time)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, update)
}

type LimiterRequest struct {
	Rate  float64 `json:"rate"`
	Burst int     `json:"burst"`
}

var limiterRequestSchema = z.Struct(z.Shape{
	"rate":  z.Float64().Required(),
	"burst": z.Int().Required(),
})

func (rs *RestfulServer) PostLimiter(c *gin.Context) {
	deviceID := c.Param("device_id")

	var req LimiterRequest
	if errs := limiterRequestSchema.Parse(zhttp.Request(c.Request), &req); errs != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errs})
		return
	}

	if rs.RateLimiterStore == nil {
		c.Status(http.StatusOK)
		return
	}
	if err := rs.RateLimiterStore.Override(deviceID, dispenser.Limits{Rate: rate.Limit(req.Rate), Burst: req.Burst}); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rs.RateLimiterStore.Limits(deviceID))
}

func (rs *RestfulServer) ListErrors(c *gin.Context) {
	onlyOpen, _ := strconv.ParseBool(c.DefaultQuery("open", "false"))

	errs, err := rs.Dispenser.Faults.ListErrors(onlyOpen)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, errs)
}

func (rs *RestfulServer) ResolveError(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid error id"})
		return
	}

	resolved, err := rs.Dispenser.Faults.ResolveError(uint(id))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resolved)
}
