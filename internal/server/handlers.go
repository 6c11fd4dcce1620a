package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"MooMetrics/internal/aggregate"
	"MooMetrics/internal/collector"
	"MooMetrics/internal/dashboard"
)

func (s *Server) handleHealth(c *gin.Context) {
	snap := s.source.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"health":  "ok",
		"news":    snap.News.Status,
		"videos":  snap.Videos.Status,
		"time":    s.now().Format(time.RFC3339),
	})
}

func (s *Server) handleLegend(c *gin.Context) {
	c.JSON(http.StatusOK, dashboard.BuildLegendView())
}

// GET /api/news?window=7d&q=etf&expanded=id1,id2
func (s *Server) handleNews(c *gin.Context) {
	window, err := aggregate.ParseWindow(c.Query("window"))
	if err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, err.Error())
		return
	}
	st := dashboard.NewsState{Window: window, Search: c.Query("q")}
	for _, id := range strings.Split(c.Query("expanded"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			st.Toggle(id)
		}
	}
	c.JSON(http.StatusOK, dashboard.BuildNewsView(s.source.Snapshot().News, st, s.now(), s.opts.Location))
}

// GET /api/videos?date=2024-05-01&channel=DataDash&video=12
func (s *Server) handleVideos(c *gin.Context) {
	var st dashboard.VideoState
	if raw := c.Query("date"); raw != "" {
		d, err := aggregate.ParseDay(raw, s.opts.Location)
		if err != nil {
			writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid date, expected YYYY-MM-DD")
			return
		}
		st.Date = d
	}
	st.Channel = c.Query("channel")
	if raw := c.Query("video"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid video id")
			return
		}
		st.VideoID = id
	}
	opts := dashboard.VideoOptions{Roster: s.opts.Roster, SeedRoster: s.opts.SeedRoster, Location: s.opts.Location}
	c.JSON(http.StatusOK, dashboard.BuildVideoView(s.source.Snapshot().Videos, st, opts, s.now()))
}

func (s *Server) handleCoins(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"coins": s.opts.Coins})
}

func (s *Server) handleCoinHistory(c *gin.Context) {
	coin, err := dashboard.ResolveCoin(s.opts.Coins, c.Param("coin"))
	if err != nil {
		writeError(c, http.StatusNotFound, errCodeNotFound, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), coinHistoryTimeout)
	defer cancel()
	points, err := s.source.CoinHistory(ctx, coin.Symbol)
	if err != nil {
		s.writeFetchError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard.BuildCoinView(coin, s.opts.Coins, points))
}

func (s *Server) handleCoinDaily(c *gin.Context) {
	coin, err := dashboard.ResolveCoin(s.opts.Coins, c.Param("coin"))
	if err != nil {
		writeError(c, http.StatusNotFound, errCodeNotFound, err.Error())
		return
	}
	if s.opts.Store == nil {
		writeError(c, http.StatusNotFound, errCodeNotFound, "daily tallies are not recorded")
		return
	}

	days := defaultStoredDays
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid days")
			return
		}
		days = n
	}

	rows, err := s.opts.Store.DailyFor(coin.Symbol, days)
	if err != nil {
		s.log.Errorf("read daily tallies for %s: %v", coin.Symbol, err)
		writeError(c, http.StatusInternalServerError, errCodeInternal, "read daily tallies failed")
		return
	}
	if rows == nil {
		rows = []aggregate.DailyCoinAggregate{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "coin": coin, "days": rows})
}

func (s *Server) handleRefresh(c *gin.Context) {
	var snap collector.Snapshot
	if s.opts.Refresher != nil {
		snap = s.opts.Refresher.RefreshNow()
	} else {
		ctx, cancel := context.WithTimeout(c.Request.Context(), refreshTimeout)
		defer cancel()
		snap = s.source.Refresh(ctx)
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"news":    snap.News.Status,
		"videos":  snap.Videos.Status,
	})
}

func (s *Server) writeFetchError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, collector.ErrMalformed):
		writeError(c, http.StatusBadGateway, errCodeMalformed, err.Error())
	case errors.Is(err, collector.ErrNetwork):
		writeError(c, http.StatusBadGateway, errCodeUpstream, err.Error())
	default:
		s.log.Errorf("unexpected error: %v", err)
		writeError(c, http.StatusInternalServerError, errCodeInternal, err.Error())
	}
}
