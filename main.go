package main

import (
	"log"
	"log/slog"
	"os"

	"brainhr-server/routes"
	"brainhr-server/services"
	"brainhr-server/storage"
	"brainhr-server/utils"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
)

func main() {
	godotenv.Load()
	storage.InitializeDB()
	storage.InitializeRedis()
	if err := storage.InitializeUploadDir(); err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	routes.Events = services.NewEventPublisher(slog.Default())

	app := iris.New()
	app.Validator = validator.New()

	// CORS for the portal frontends.
	frontend := os.Getenv("FRONTEND_URL")
	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		origin := ctx.GetHeader("Origin")
		if frontend != "" && origin != frontend {
			origin = frontend
		}
		ctx.Header("Access-Control-Allow-Origin", origin)
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifier.WithDefaultBlocklist()
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} {
		return new(utils.AccessToken)
	})

	refreshTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("REFRESH_TOKEN_SECRET")))
	refreshTokenVerifier.WithDefaultBlocklist()
	refreshTokenVerifier.Extractors = append(refreshTokenVerifier.Extractors, func(ctx iris.Context) string {
		var tokenInput utils.RefreshTokenInput
		if err := ctx.ReadJSON(&tokenInput); err != nil {
			return ""
		}
		return tokenInput.RefreshToken
	})
	refreshTokenVerifierMiddleware := refreshTokenVerifier.Verify(func() interface{} {
		return new(jwt.Claims)
	})

	app.Get("/", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"service": "brainhr-server", "status": "ok"})
	})
	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "healthy"})
	})
	app.HandleDir("/uploads", iris.Dir(storage.UploadDir()))

	// Public surface: job board, applications, courses, enrollments.
	api := app.Party("/api")
	{
		api.Get("/jobs", routes.ListJobs)
		api.Post("/apply", routes.Apply)
		api.Get("/public/courses", routes.PublicCourses)
		api.Post("/enroll", routes.Enroll)
		api.Post("/refresh-token", refreshTokenVerifierMiddleware, utils.RefreshToken)

		// Messaging allows anonymous senders; authenticated callers are
		// picked up by the optional token middleware.
		api.Post("/messages", utils.OptionalTokenMiddleware, routes.CreateMessage)
		api.Get("/messages", utils.OptionalTokenMiddleware, routes.ContextMessages)
		api.Post("/messages/{id:uint}/mark-read", utils.OptionalTokenMiddleware, routes.MarkMessageRead)
		api.Post("/messages/mark-read/{id:uint}", utils.OptionalTokenMiddleware, routes.MarkMessageRead)
		api.Get("/unread-count", utils.OptionalTokenMiddleware, routes.UnreadCount)
	}

	admin := app.Party("/api/admin")
	{
		admin.Post("/login", routes.AdminLogin)
		admin.Post("/logout", utils.OptionalTokenMiddleware, routes.Logout)
		admin.Get("/check", utils.OptionalTokenMiddleware, routes.AuthCheck)

		protected := admin.Party("", accessTokenVerifierMiddleware, utils.AdminOnlyMiddleware)
		protected.Get("/me", routes.Me)
		protected.Get("/stats", routes.AdminStats)

		protected.Get("/employees", routes.ListEmployees)
		protected.Post("/employees", routes.CreateEmployee)
		protected.Put("/employees/{id:uint}", routes.UpdateEmployee)
		protected.Delete("/employees/{id:uint}", routes.DeleteEmployee)
		protected.Post("/employees/{id:uint}/reset-password", routes.ResetEmployeePassword)

		protected.Get("/managers", routes.ListManagers)
		protected.Post("/managers", routes.CreateManager)
		protected.Put("/managers/{id:uint}", routes.UpdateManager)
		protected.Delete("/managers/{id:uint}", routes.DeleteManager)
		protected.Post("/managers/{id:uint}/reset-password", routes.ResetManagerPassword)

		protected.Get("/jobs", routes.AdminListJobs)
		protected.Post("/jobs", routes.CreateJob)
		protected.Delete("/jobs/{id:uint}", routes.DeactivateJob)
		protected.Post("/jobs/delete", routes.DeactivateJobsBulk)

		protected.Get("/applications", routes.AdminListApplications)
		protected.Post("/applications/{id:uint}/view", routes.MarkApplicationViewed)
		protected.Delete("/applications/{id:uint}", routes.DeleteApplication)
		protected.Post("/applications/delete", routes.DeleteApplicationsBulk)
		protected.Get("/download/resume/{filename}", routes.DownloadResume)
		protected.Post("/download/resumes", routes.DownloadResumesZip)
		protected.Post("/export/excel", routes.ExportApplicationsExcel)

		protected.Get("/courses", routes.AdminListCourses)
		protected.Post("/courses", routes.CreateCourse)
		protected.Put("/courses/{id:uint}", routes.UpdateCourse)
		protected.Post("/courses/{id:uint}/archive", routes.ArchiveCourse)
		protected.Delete("/courses/{id:uint}", routes.DeleteCourse)
		protected.Get("/enrollments/{id:uint}", routes.AdminListEnrollments)
		protected.Post("/enrollments/export/excel", routes.ExportEnrollmentsExcel)

		protected.Get("/timesheets", routes.AdminListTimesheets)
		protected.Get("/timesheets/download/{id:uint}", routes.DownloadTimesheet)
		protected.Post("/timesheets/download-multiple", routes.DownloadTimesheetsZip)

		protected.Get("/visa-docs", routes.AdminListVisaDocs)
		protected.Get("/visa-docs/download/{id:uint}", routes.DownloadVisaDoc)
		protected.Post("/visa-docs/download-multiple", routes.DownloadVisaDocsZip)

		protected.Get("/activities", routes.AdminListActivities)
		protected.Get("/notifications", routes.AdminListNotifications)
		protected.Post("/notifications/{id:uint}/mark-read", routes.MarkNotificationRead)

		protected.Get("/my-messages", routes.AdminMyMessages)
	}

	manager := app.Party("/api/manager")
	{
		manager.Post("/login", routes.ManagerLogin)
		manager.Post("/logout", utils.OptionalTokenMiddleware, routes.Logout)
		manager.Get("/check", utils.OptionalTokenMiddleware, routes.AuthCheck)

		protected := manager.Party("", accessTokenVerifierMiddleware, utils.ManagerOnlyMiddleware)
		protected.Get("/me", routes.Me)
		protected.Get("/my-messages", routes.ManagerMyMessages)

		// Admins share the per-employee thread view with managers.
		manager.Get("/employee-messages/{id:uint}",
			accessTokenVerifierMiddleware, utils.StaffOnlyMiddleware, routes.ManagerEmployeeMessages)
	}

	employee := app.Party("/api/employee")
	{
		employee.Post("/login", routes.EmployeeLogin)
		employee.Post("/logout", utils.OptionalTokenMiddleware, routes.Logout)
		employee.Get("/check", utils.OptionalTokenMiddleware, routes.AuthCheck)

		protected := employee.Party("", accessTokenVerifierMiddleware, utils.EmployeeOnlyMiddleware)
		protected.Get("/me", routes.Me)
		protected.Get("/managers", routes.ListManagersForEmployee)
		protected.Get("/my-messages", routes.EmployeeMyMessages)
		protected.Get("/messages", routes.EmployeeInboxMessages)

		protected.Get("/timesheets", routes.EmployeeListTimesheets)
		protected.Post("/timesheets", routes.UploadTimesheet)
		protected.Post("/timesheets/{id:uint}/submit", routes.SubmitTimesheet)

		protected.Get("/visa-docs", routes.EmployeeListVisaDocs)
		protected.Post("/visa-docs", routes.UploadVisaDoc)

		protected.Get("/activities", routes.EmployeeListActivities)
		protected.Post("/activities", routes.CreateActivity)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	app.Listen(":" + port)
}
