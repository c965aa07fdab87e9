// Package manifest loads Kubernetes manifests and rewrites the image
// reference a deployment runs. Rewrites always produce a new document;
// the file on disk is never modified.
package manifest

import (
	"fmt"
	"os"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"
)

// Load reads a manifest file.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("manifest %s is empty", path)
	}
	return data, nil
}

// RewriteImage returns a copy of the deployment manifest with the image of
// the container named containerName replaced by image. When no container
// matches by name, the first container is rewritten.
func RewriteImage(deploymentYAML []byte, containerName, image string) ([]byte, error) {
	var dep appsv1.Deployment
	if err := yaml.Unmarshal(deploymentYAML, &dep); err != nil {
		return nil, fmt.Errorf("failed to parse deployment manifest: %w", err)
	}

	containers := dep.Spec.Template.Spec.Containers
	if len(containers) == 0 {
		return nil, fmt.Errorf("deployment %s has no containers", dep.Name)
	}

	target := 0
	for i := range containers {
		if containers[i].Name == containerName {
			target = i
			break
		}
	}
	containers[target].Image = image

	out, err := yaml.Marshal(&dep)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize deployment manifest: %w", err)
	}
	return out, nil
}

// Image returns the image of the container named containerName, or of the
// first container when no name matches.
func Image(deploymentYAML []byte, containerName string) (string, error) {
	var dep appsv1.Deployment
	if err := yaml.Unmarshal(deploymentYAML, &dep); err != nil {
		return "", fmt.Errorf("failed to parse deployment manifest: %w", err)
	}

	containers := dep.Spec.Template.Spec.Containers
	if len(containers) == 0 {
		return "", fmt.Errorf("deployment %s has no containers", dep.Name)
	}
	for i := range containers {
		if containers[i].Name == containerName {
			return containers[i].Image, nil
		}
	}
	return containers[0].Image, nil
}

// ServiceNodePort returns the node port exposed by a NodePort service
// manifest.
func ServiceNodePort(serviceYAML []byte) (int32, error) {
	var svc corev1.Service
	if err := yaml.Unmarshal(serviceYAML, &svc); err != nil {
		return 0, fmt.Errorf("failed to parse service manifest: %w", err)
	}
	if svc.Spec.Type != corev1.ServiceTypeNodePort {
		return 0, fmt.Errorf("service %s is %s, expected NodePort", svc.Name, svc.Spec.Type)
	}
	for _, port := range svc.Spec.Ports {
		if port.NodePort > 0 {
			return port.NodePort, nil
		}
	}
	return 0, fmt.Errorf("service %s declares no node port", svc.Name)
}
