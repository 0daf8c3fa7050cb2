package web

import (
	"net/http"

	"github.com/Cole-Dreyer/Restaurant-Reservation/client"
	"github.com/gin-gonic/gin"
)

type tablePage struct {
	Title string
	Error string
	Form  client.TableInput
}

func (s *Server) NewTable(c *gin.Context) {
	c.HTML(http.StatusOK, "table_form.html", tablePage{Title: "New Table", Form: client.TableInput{Capacity: 1}})
}

func (s *Server) CreateTable(c *gin.Context) {
	form := client.TableInput{TableName: c.PostForm("table_name"), Capacity: formInt(c, "capacity")}
	if _, err := s.API.CreateTable(c.Request.Context(), form); err != nil {
		c.HTML(http.StatusBadRequest, "table_form.html", tablePage{
			Title: "New Table",
			Error: alertMessage(c, err),
			Form:  form,
		})
		return
	}
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Finish frees the table and returns to the dashboard date it was pressed on.
func (s *Server) Finish(c *gin.Context) {
	if _, err := s.API.Finish(c.Request.Context(), paramUint(c, "table_id")); err != nil {
		s.renderDashboardError(c, c.PostForm("date"), alertMessage(c, err))
		return
	}
	c.Redirect(http.StatusSeeOther, dashboardURL(c.PostForm("date")))
}
