package fakebackend

import (
	"net/http"
	"sort"

	"ndphc-monitor/internal/model"

	"github.com/gin-gonic/gin"
)

func (s *Server) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	s.mu.Lock()
	var found *userRecord
	for _, rec := range s.users {
		if rec.user.Email == username {
			found = rec
			break
		}
	}
	s.mu.Unlock()

	if found == nil || found.password != password {
		detail(c, http.StatusBadRequest, "Incorrect email or password")
		return
	}
	if !found.user.IsActive {
		detail(c, http.StatusBadRequest, "Inactive user")
		return
	}

	s.mu.Lock()
	token, err := s.issueToken(found.user.ID)
	s.mu.Unlock()
	if err != nil {
		detail(c, http.StatusInternalServerError, err.Error())
		return
	}
	c.JSON(http.StatusOK, model.Token{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) currentUser(c *gin.Context) *userRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[c.GetInt("user_id")]
}

func (s *Server) me(c *gin.Context) {
	c.JSON(http.StatusOK, s.currentUser(c).user)
}

func (s *Server) updateMe(c *gin.Context) {
	var body struct {
		FullName string `json:"full_name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	rec := s.currentUser(c)
	s.mu.Lock()
	rec.user.FullName = body.FullName
	user := rec.user
	s.mu.Unlock()
	c.JSON(http.StatusOK, user)
}

func (s *Server) updatePassword(c *gin.Context) {
	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	rec := s.currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec.password != body.CurrentPassword {
		detail(c, http.StatusBadRequest, "Incorrect password")
		return
	}
	rec.password = body.NewPassword
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

func (s *Server) listUsers(c *gin.Context) {
	s.mu.Lock()
	users := make([]model.User, 0, len(s.users))
	for _, rec := range s.users {
		users = append(users, rec.user)
	}
	s.mu.Unlock()
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	c.JSON(http.StatusOK, users)
}

func (s *Server) createUser(c *gin.Context) {
	var in model.UserCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range s.users {
		if rec.user.Email == in.Email {
			detail(c, http.StatusBadRequest, "Email already registered")
			return
		}
	}
	user := model.User{
		ID:           s.id(),
		Email:        in.Email,
		FullName:     in.FullName,
		Role:         in.Role,
		IsActive:     in.IsActive,
		PowerPlantID: in.PowerPlantID,
	}
	s.users[user.ID] = &userRecord{user: user, password: in.Password}
	c.JSON(http.StatusOK, user)
}

func (s *Server) updateUser(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var in model.UserUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, found := s.users[id]
	if !found {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	rec.user.Email = in.Email
	rec.user.FullName = in.FullName
	rec.user.Role = in.Role
	rec.user.IsActive = in.IsActive
	rec.user.PowerPlantID = in.PowerPlantID
	if in.Password != nil {
		rec.password = *in.Password
	}
	c.JSON(http.StatusOK, rec.user)
}

func (s *Server) deleteUser(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.users[id]; !found {
		detail(c, http.StatusNotFound, "User not found")
		return
	}
	delete(s.users, id)
	c.Status(http.StatusNoContent)
}

// plantWithTurbines expects s.mu to be held.
func (s *Server) plantWithTurbines(id int) model.PowerPlant {
	plant := *s.plants[id]
	plant.Turbines = []model.Turbine{}
	for _, t := range s.turbines {
		if t.PowerPlantID == id {
			plant.Turbines = append(plant.Turbines, *t)
		}
	}
	sort.Slice(plant.Turbines, func(i, j int) bool { return plant.Turbines[i].ID < plant.Turbines[j].ID })
	plant.TurbineCount = len(plant.Turbines)
	return plant
}

func (s *Server) listPlants(c *gin.Context) {
	s.mu.Lock()
	plants := make([]model.PowerPlant, 0, len(s.plants))
	for id := range s.plants {
		p := s.plantWithTurbines(id)
		p.Turbines = nil
		plants = append(plants, p)
	}
	s.mu.Unlock()
	sort.Slice(plants, func(i, j int) bool { return plants[i].ID < plants[j].ID })
	c.JSON(http.StatusOK, plants)
}

func (s *Server) getPlant(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.plants[id]; !found {
		detail(c, http.StatusNotFound, "Power plant not found")
		return
	}
	c.JSON(http.StatusOK, s.plantWithTurbines(id))
}

func (s *Server) createPlant(c *gin.Context) {
	var in model.PowerPlantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	plant := &model.PowerPlant{ID: s.id(), Name: in.Name, Location: in.Location, TotalCapacity: in.TotalCapacity}
	s.plants[plant.ID] = plant
	c.JSON(http.StatusOK, *plant)
}

func (s *Server) updatePlant(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var in model.PowerPlantInput
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	plant, found := s.plants[id]
	if !found {
		detail(c, http.StatusNotFound, "Power plant not found")
		return
	}
	plant.Name, plant.Location, plant.TotalCapacity = in.Name, in.Location, in.TotalCapacity
	out := s.plantWithTurbines(id)
	out.Turbines = nil
	c.JSON(http.StatusOK, out)
}

func (s *Server) deletePlant(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.plants[id]; !found {
		detail(c, http.StatusNotFound, "Power plant not found")
		return
	}
	delete(s.plants, id)
	for tid, t := range s.turbines {
		if t.PowerPlantID == id {
			delete(s.turbines, tid)
		}
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) createTurbine(c *gin.Context) {
	plantID, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var in model.TurbineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.plants[plantID]; !found {
		detail(c, http.StatusNotFound, "Power plant not found")
		return
	}
	t := &model.Turbine{ID: s.id(), Name: in.Name, Capacity: in.Capacity, PowerPlantID: plantID}
	s.turbines[t.ID] = t
	c.JSON(http.StatusOK, *t)
}

func (s *Server) updateTurbine(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	var in model.TurbineInput
	if err := c.ShouldBindJSON(&in); err != nil {
		detail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, found := s.turbines[id]
	if !found {
		detail(c, http.StatusNotFound, "Turbine not found")
		return
	}
	t.Name, t.Capacity = in.Name, in.Capacity
	c.JSON(http.StatusOK, *t)
}

func (s *Server) deleteTurbine(c *gin.Context) {
	id, ok := paramInt(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.turbines[id]; !found {
		detail(c, http.StatusNotFound, "Turbine not found")
		return
	}
	delete(s.turbines, id)
	c.Status(http.StatusNoContent)
}

func (s *Server) download(c *gin.Context) {
	s.mu.Lock()
	data := s.ExportFile
	s.mu.Unlock()
	c.Header("Content-Disposition", `attachment; filename="power_plant_data.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
