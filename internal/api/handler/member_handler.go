package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/memberly/portal/internal/core/ports"
)

// MemberHandler serves the authenticated JSON member-management surface.
// The AccessGate has already vetted every request reaching it.
type MemberHandler struct {
	directory ports.MemberDirectory
}

func NewMemberHandler(directory ports.MemberDirectory) *MemberHandler {
	return &MemberHandler{directory: directory}
}

// List returns every member.
//
// @Summary      List members
// @Tags         members
// @Produce      json
// @Success      200  {object}  listMembersResponse
// @Router       /members [get]
func (h *MemberHandler) List(c echo.Context) error {
	members, err := h.directory.FindAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListResponse(members))
}

// Get returns a single member by id.
//
// @Summary      Get a member
// @Tags         members
// @Produce      json
// @Param        id   path      string  true  "Member id"
// @Success      200  {object}  memberResponse
// @Failure      404  {object}  map[string]string
// @Router       /members/{id} [get]
func (h *MemberHandler) Get(c echo.Context) error {
	member, err := h.directory.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemberResponse(member))
}

// Update overwrites a member's name fields and re-hashes the submitted
// password.
//
// @Summary      Update a member
// @Tags         members
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Member id"
// @Param        body  body      updateMemberRequest  true  "Fields to apply"
// @Success      200   {object}  memberResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /members/{id} [put]
func (h *MemberHandler) Update(c echo.Context) error {
	var req updateMemberRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	updated, err := h.directory.Update(c.Request().Context(), c.Param("id"), toUpdateInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMemberResponse(updated))
}

// Delete removes a member. Deleting an id that does not exist reports 404
// but performs no write.
//
// @Summary      Delete a member
// @Tags         members
// @Param        id  path  string  true  "Member id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /members/{id} [delete]
func (h *MemberHandler) Delete(c echo.Context) error {
	deleted, err := h.directory.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "member not found")
	}
	return c.NoContent(http.StatusNoContent)
}
