package services

// ServiceContainer holds all the service facades handlers depend on.
type ServiceContainer struct {
	Reception ReceptionSvcFacade
	Closure   ClosureSvcFacade
	Reference ReferenceSvcFacade
}
