package adoptionserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// Routes is a map of defined api endpoints.
type Routes map[string][]Route

// ApiHandleFunctions holds the implemented api handlers.
type ApiHandleFunctions struct {
	AdoptionAPI AdoptionAPI
	PetAPI      PetAPI
	UserAPI     UserAPI
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions, middleware...)
}

// NewRouterWithGinEngine adds the defined routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router.Use(middleware...)
	for _, routes := range getRoutes(handleFunctions) {
		for _, route := range routes {
			if route.HandlerFunc == nil {
				route.HandlerFunc = DefaultHandleFunc
			}
			switch route.Method {
			case http.MethodGet:
				router.GET(route.Pattern, route.HandlerFunc)
			case http.MethodPost:
				router.POST(route.Pattern, route.HandlerFunc)
			case http.MethodPut:
				router.PUT(route.Pattern, route.HandlerFunc)
			case http.MethodPatch:
				router.PATCH(route.Pattern, route.HandlerFunc)
			case http.MethodDelete:
				router.DELETE(route.Pattern, route.HandlerFunc)
			}
		}
	}
	return router
}

// DefaultHandleFunc returns 501 Not Implemented.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) Routes {
	return Routes{
		"AdoptionAPI": {
			{
				"SubmitApplication",
				http.MethodPost,
				"/v1/adoptions",
				handleFunctions.AdoptionAPI.SubmitApplication,
			},
			{
				"ListAllApplications",
				http.MethodGet,
				"/v1/adoptions",
				handleFunctions.AdoptionAPI.ListAllApplications,
			},
			{
				"ListOwnApplications",
				http.MethodGet,
				"/v1/adoptions/own",
				handleFunctions.AdoptionAPI.ListOwnApplications,
			},
			{
				"GetApplicationById",
				http.MethodGet,
				"/v1/adoptions/:applicationId",
				handleFunctions.AdoptionAPI.GetApplicationById,
			},
			{
				"WithdrawApplication",
				http.MethodDelete,
				"/v1/adoptions/:applicationId",
				handleFunctions.AdoptionAPI.WithdrawApplication,
			},
			{
				"ApproveApplication",
				http.MethodPost,
				"/v1/adoptions/:applicationId/approve",
				handleFunctions.AdoptionAPI.ApproveApplication,
			},
			{
				"RejectApplication",
				http.MethodPost,
				"/v1/adoptions/:applicationId/reject",
				handleFunctions.AdoptionAPI.RejectApplication,
			},
		},
		"PetAPI": {
			{
				"AddPet",
				http.MethodPost,
				"/v1/pets",
				handleFunctions.PetAPI.AddPet,
			},
			{
				"UpdatePet",
				http.MethodPut,
				"/v1/pets",
				handleFunctions.PetAPI.UpdatePet,
			},
			{
				"ListPets",
				http.MethodGet,
				"/v1/pets",
				handleFunctions.PetAPI.ListPets,
			},
			{
				"FindPetsByStatus",
				http.MethodGet,
				"/v1/pets/findByStatus",
				handleFunctions.PetAPI.FindPetsByStatus,
			},
			{
				"GetPetById",
				http.MethodGet,
				"/v1/pets/:petId",
				handleFunctions.PetAPI.GetPetById,
			},
			{
				"DeletePet",
				http.MethodDelete,
				"/v1/pets/:petId",
				handleFunctions.PetAPI.DeletePet,
			},
			{
				"ChangePetAvailability",
				http.MethodPost,
				"/v1/pets/:petId/availability",
				handleFunctions.PetAPI.ChangePetAvailability,
			},
		},
		"UserAPI": {
			{
				"CreateUser",
				http.MethodPost,
				"/v1/users",
				handleFunctions.UserAPI.CreateUser,
			},
			{
				"LoginUser",
				http.MethodPost,
				"/v1/users/login",
				handleFunctions.UserAPI.LoginUser,
			},
			{
				"LogoutUser",
				http.MethodPost,
				"/v1/users/logout",
				handleFunctions.UserAPI.LogoutUser,
			},
			{
				"GetUserByName",
				http.MethodGet,
				"/v1/users/:username",
				handleFunctions.UserAPI.GetUserByName,
			},
			{
				"UpdateUser",
				http.MethodPut,
				"/v1/users/:username",
				handleFunctions.UserAPI.UpdateUser,
			},
			{
				"DeleteUser",
				http.MethodDelete,
				"/v1/users/:username",
				handleFunctions.UserAPI.DeleteUser,
			},
		},
	}
}
